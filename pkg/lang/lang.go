// Package lang holds the language heuristics and the static message
// templates for outbound notifications. There is no translation
// service behind this, only fixed phrase tables.
package lang

import "strings"

type Code string

const (
	English    Code = "en"
	Arabic     Code = "ar"
	Spanish    Code = "es"
	Portuguese Code = "pt"
)

// All lists the supported languages in display order.
func All() []Code {
	return []Code{English, Arabic, Spanish, Portuguese}
}

// Valid reports whether c is one of the supported language tags.
func Valid(c Code) bool {
	switch c {
	case English, Arabic, Spanish, Portuguese:
		return true
	}
	return false
}

// Name returns the label shown on translation buttons.
func Name(c Code) string {
	switch c {
	case Arabic:
		return "العربية"
	case Spanish:
		return "Español"
	case Portuguese:
		return "Português"
	default:
		return "English"
	}
}

const arabicLetters = "ضصثقفغعهخحجچشسيبلاتنمكطئءؤرلاىةوزظذ"

var (
	englishHints    = []string{"vs", "versus", "against", "team"}
	spanishHints    = []string{"contra", "equipo", "partido"}
	portugueseHints = []string{"equipe", "partida"}
)

// Detect guesses a language from free-form team text. Arabic script
// wins outright; otherwise keyword lists are checked in order and
// English is the fallback.
func Detect(text string) Code {
	if strings.ContainsAny(text, arabicLetters) {
		return Arabic
	}
	lower := strings.ToLower(text)
	if containsAnyWord(lower, englishHints) {
		return English
	}
	if containsAnyWord(lower, spanishHints) {
		return Spanish
	}
	if containsAnyWord(lower, portugueseHints) {
		return Portuguese
	}
	return English
}

func containsAnyWord(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

type Lead string

const (
	LeadTenMinutes   Lead = "10min"
	LeadThreeMinutes Lead = "3min"
)

// LeadPhrase localizes the time-before phrase used in reminders.
func LeadPhrase(c Code, lead Lead) string {
	minutes := "10"
	if lead == LeadThreeMinutes {
		minutes = "3"
	}
	switch c {
	case Arabic:
		return minutes + " دقائق"
	case Spanish, Portuguese:
		return minutes + " minutos"
	default:
		return minutes + " minutes"
	}
}

// CreatedMessage renders the "new match" announcement body.
func CreatedMessage(c Code, team1, team2, when string) string {
	switch c {
	case Arabic:
		return "🏆 مباراة جديدة!\n\nالفرق: " + team1 + " ضد " + team2 +
			"\nالوقت: " + when + "\n\nتم إنشاء مباراة جديدة وتم ذكرك فيها!"
	case Spanish:
		return "🏆 ¡Nuevo Partido!\n\nEquipos: " + team1 + " vs " + team2 +
			"\nHora: " + when + "\n\n¡Se ha creado un nuevo partido y has sido mencionado!"
	case Portuguese:
		return "🏆 Nova Partida!\n\nEquipes: " + team1 + " vs " + team2 +
			"\nHorário: " + when + "\n\nUma nova partida foi criada e você foi mencionado!"
	default:
		return "🏆 New Match!\n\nTeams: " + team1 + " vs " + team2 +
			"\nTime: " + when + "\n\nA new match has been created and you were mentioned!"
	}
}

// ReminderMessage renders the reminder body for the given lead time.
func ReminderMessage(c Code, team1, team2, when string, lead Lead) string {
	before := LeadPhrase(c, lead)
	switch c {
	case Arabic:
		return "⏰ تذكير بالمباراة!\n\nالفرق: " + team1 + " ضد " + team2 +
			"\nالوقت: " + when + "\n\n🚨 المباراة ستبدأ خلال " + before + "! استعد الآن!"
	case Spanish:
		return "⏰ ¡Recordatorio de Partido!\n\nEquipos: " + team1 + " vs " + team2 +
			"\nHora: " + when + "\n\n🚨 ¡El partido comenzará en " + before + "! ¡Prepárate ahora!"
	case Portuguese:
		return "⏰ Lembrete de Partida!\n\nEquipes: " + team1 + " vs " + team2 +
			"\nHorário: " + when + "\n\n🚨 A partida começará em " + before + "! Prepare-se agora!"
	default:
		return "⏰ Match Reminder!\n\nTeams: " + team1 + " vs " + team2 +
			"\nTime: " + when + "\n\n🚨 The match will start in " + before + "! Get ready now!"
	}
}
