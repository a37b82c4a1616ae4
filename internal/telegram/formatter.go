package telegram

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kitbuilder587/ticket-bot/internal/domain"
)

// MaxMessageLength is Telegram's limit for one text message.
const MaxMessageLength = 4096

const separator = "━━━━━━━━━━━━━━━━━━━━━"

func FormatEvents(events []domain.Event, total int) string {
	var sb strings.Builder
	sb.WriteString(formatHeader("Найдено событий", len(events), total))

	for i, e := range events {
		sb.WriteString(formatEvent(i+1, e))
		sb.WriteString("\n")
	}

	sb.WriteString("Подробнее: /event ID")
	return sb.String()
}

// FormatEventDetails renders events fetched by ID with their line-up.
func FormatEventDetails(events []domain.Event) string {
	var sb strings.Builder

	for i, e := range events {
		if i > 0 {
			sb.WriteString(separator + "\n")
		}
		sb.WriteString(formatEvent(i+1, e))

		if e.Status != "" {
			sb.WriteString(fmt.Sprintf("   Статус: %s\n", html.EscapeString(e.Status)))
		}
		if names := attractionNames(e.Attractions); names != "" {
			sb.WriteString(fmt.Sprintf("   Участники: %s\n", html.EscapeString(names)))
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func FormatVenues(venues []domain.Venue, total int) string {
	var sb strings.Builder
	sb.WriteString(formatHeader("Найдено площадок", len(venues), total))

	for i, v := range venues {
		sb.WriteString(fmt.Sprintf("%d. <b>%s</b>\n", i+1, html.EscapeString(v.Name)))
		if addr := venueAddress(v); addr != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", html.EscapeString(addr)))
		}
		if v.Location.Latitude != 0 || v.Location.Longitude != 0 {
			sb.WriteString(fmt.Sprintf("   Координаты: <code>%s,%s</code>\n",
				formatFloat(v.Location.Latitude), formatFloat(v.Location.Longitude)))
		}
		sb.WriteString(fmt.Sprintf("   ID: <code>%s</code>\n", html.EscapeString(v.ID)))
		if v.URL != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", link(v.URL, "Страница площадки")))
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func FormatAttractions(attractions []domain.Attraction, total int) string {
	var sb strings.Builder
	sb.WriteString(formatHeader("Найдено артистов", len(attractions), total))

	for i, a := range attractions {
		sb.WriteString(fmt.Sprintf("%d. <b>%s</b>\n", i+1, html.EscapeString(a.Name)))
		if genre := classificationLine(a.Classifications); genre != "" {
			sb.WriteString(fmt.Sprintf("   Жанр: %s\n", html.EscapeString(genre)))
		}
		sb.WriteString(fmt.Sprintf("   ID: <code>%s</code>\n", html.EscapeString(a.ID)))
		if a.URL != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", link(a.URL, "Страница артиста")))
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func FormatHistory(records []domain.SearchRecord) string {
	if len(records) == 0 {
		return "История поиска пуста."
	}

	var sb strings.Builder
	sb.WriteString("<b>Последние запросы:</b>\n\n")

	for i, r := range records {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n   %s, результатов: %d\n",
			i+1,
			kindLabel(r.Kind),
			html.EscapeString(r.Query),
			r.CreatedAt.UTC().Format("2006-01-02 15:04"),
			r.ResultCount,
		))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func formatHeader(title string, shown, total int) string {
	if total > shown {
		return fmt.Sprintf("<b>%s: %d</b> (показаны первые %d)\n\n", title, total, shown)
	}
	return fmt.Sprintf("<b>%s: %d</b>\n\n", title, shown)
}

func formatEvent(n int, e domain.Event) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d. <b>%s</b>\n", n, html.EscapeString(e.Name)))
	sb.WriteString(fmt.Sprintf("   Дата: %s\n", eventDate(e)))

	if len(e.Venues) > 0 {
		v := e.Venues[0]
		place := v.Name
		if v.City != "" {
			place += ", " + v.City
		}
		if v.StateCode != "" {
			place += ", " + v.StateCode
		}
		sb.WriteString(fmt.Sprintf("   Место: %s\n", html.EscapeString(place)))
	}
	if genre := classificationLine(e.Classifications); genre != "" {
		sb.WriteString(fmt.Sprintf("   Жанр: %s\n", html.EscapeString(genre)))
	}
	if len(e.PriceRanges) > 0 {
		sb.WriteString(fmt.Sprintf("   Цены: %s\n", html.EscapeString(priceRange(e.PriceRanges[0]))))
	}

	sb.WriteString(fmt.Sprintf("   ID: <code>%s</code>\n", html.EscapeString(e.ID)))
	if e.URL != "" {
		sb.WriteString(fmt.Sprintf("   %s\n", link(e.URL, "Билеты")))
	}
	return sb.String()
}

func eventDate(e domain.Event) string {
	switch {
	case e.LocalStartDate == "":
		return "уточняется"
	case e.LocalStartTime == "":
		return e.LocalStartDate
	default:
		// localTime приходит как 19:30:00
		t := e.LocalStartTime
		if len(t) > 5 {
			t = t[:5]
		}
		return e.LocalStartDate + " " + t
	}
}

// classificationLine prefers the primary classification and skips the
// API's "Undefined" placeholders.
func classificationLine(cs []domain.EventClassification) string {
	if len(cs) == 0 {
		return ""
	}

	c := cs[0]
	for _, candidate := range cs {
		if candidate.Primary {
			c = candidate
			break
		}
	}

	var parts []string
	for _, name := range []string{c.Segment.Name, c.Genre.Name, c.Subgenre.Name} {
		if name != "" && name != "Undefined" && !contains(parts, name) {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " / ")
}

func priceRange(p domain.PriceRange) string {
	if p.Min == p.Max {
		return strings.TrimSpace(formatFloat(p.Min) + " " + p.Currency)
	}
	return strings.TrimSpace(formatFloat(p.Min) + "-" + formatFloat(p.Max) + " " + p.Currency)
}

func venueAddress(v domain.Venue) string {
	var parts []string
	for _, p := range []string{v.Address, v.City, v.StateCode, v.PostalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func attractionNames(as []domain.Attraction) string {
	names := make([]string, 0, len(as))
	for _, a := range as {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func kindLabel(k domain.SearchKind) string {
	switch k {
	case domain.SearchEvents:
		return "события"
	case domain.SearchVenues:
		return "площадки"
	case domain.SearchNearby:
		return "рядом"
	case domain.SearchAttractions:
		return "артисты"
	case domain.SearchLookup:
		return "по ID"
	default:
		return string(k)
	}
}

func link(url, text string) string {
	return fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(url), html.EscapeString(text))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var messages []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			messages = append(messages, text)
			break
		}

		splitPoint := findSafeSplitPoint(text, maxLen)
		if splitPoint <= 0 || splitPoint > len(text) {
			splitPoint = maxLen
		}

		messages = append(messages, text[:splitPoint])
		text = text[splitPoint:]
	}

	return messages
}

func findSafeSplitPoint(text string, maxLen int) int {
	// сначала пробуем разрезать между результатами
	if i := strings.LastIndex(text[:maxLen], "\n\n"); i > maxLen/2 {
		return i + 2
	}

	// пробел или перевод строки вне HTML-тегов
	for i := maxLen - 1; i > 0; i-- {
		if (text[i] == '\n' || text[i] == ' ') && !isInsideHTMLTag(text, i) {
			return i + 1
		}
	}

	if isInsideHTMLTag(text, maxLen) {
		if i := strings.LastIndexByte(text[:maxLen], '<'); i > 0 {
			return i
		}
		// тег длиннее лимита - режем после него
		if i := strings.IndexByte(text[maxLen:], '>'); i >= 0 {
			return maxLen + i + 1
		}
	}
	if i := strings.LastIndexByte(text[:maxLen], '>'); i > 0 {
		return i + 1
	}

	// не режем посреди UTF-8 символа
	i := maxLen
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

func isInsideHTMLTag(text string, pos int) bool {
	if pos >= len(text) || pos < 0 {
		return false
	}
	for i := pos; i >= 0; i-- {
		if text[i] == '>' {
			return false
		}
		if text[i] == '<' {
			return true
		}
	}
	return false
}
