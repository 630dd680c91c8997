// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package locale maps wire-level identifiers (tool names, error classes and
// codes) to display strings. The session engine treats these identifiers as
// opaque; this package owns the catalogs and the language negotiation.
//
// Every lookup has a deterministic fallback: an unknown tool gets a label
// derived from its name, an unknown error code falls back to its class
// message, an unsupported language falls back to English.
package locale

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/courtside/courtside-tui/internal/agent"
)

// =============================================================================
// LANGUAGE NEGOTIATION
// =============================================================================

// supported lists the catalog languages, English first as the fallback.
var supported = []language.Tag{
	language.English,
	language.Spanish,
	language.German,
}

var matcher = language.NewMatcher(supported)

// Negotiate resolves a BCP 47 tag (or comma-separated preference list) to a
// supported catalog language. Anything unparseable resolves to English.
func Negotiate(pref string) language.Tag {
	if pref == "" {
		return language.English
	}
	tags, _, err := language.ParseAcceptLanguage(pref)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, idx, _ := matcher.Match(tags...)
	return supported[idx]
}

// =============================================================================
// CATALOGS
// =============================================================================

// suppressedTools are internal book-keeping tools that must never surface as
// a status indicator.
var suppressedTools = map[string]bool{
	"update_user_profile": true,
	"suggest_next_steps":  true,
	"is_weekend":          true,
}

type catalog struct {
	toolLabels map[string]string
	classMsgs  map[agent.ErrorClass]string
	codeMsgs   map[string]string
	emptyReply string
}

var catalogs = map[language.Tag]*catalog{
	language.English: {
		toolLabels: map[string]string{
			"find_slots":             "Searching for available slots…",
			"create_booking_link":    "Preparing your booking link…",
			"find_clubs_by_location": "Looking up clubs nearby…",
			"find_clubs_by_name":     "Looking up the club…",
		},
		classMsgs: map[agent.ErrorClass]string{
			agent.ClassNetwork:   "Could not reach the assistant. Check your connection and try again.",
			agent.ClassServer:    "The assistant is having trouble right now. Please try again in a moment.",
			agent.ClassRateLimit: "Too many requests. Give it a few seconds and try again.",
			agent.ClassDeclared:  "The assistant could not complete that request.",
			agent.ClassGeneric:   "Something went wrong with that request.",
		},
		codeMsgs: map[string]string{
			"club_not_found": "I could not find that club. Try the city or another spelling.",
			"no_slots":       "No free slots matched your search.",
		},
		emptyReply: "(no response)",
	},
	language.Spanish: {
		toolLabels: map[string]string{
			"find_slots":             "Buscando pistas disponibles…",
			"create_booking_link":    "Preparando tu enlace de reserva…",
			"find_clubs_by_location": "Buscando clubes cercanos…",
			"find_clubs_by_name":     "Buscando el club…",
		},
		classMsgs: map[agent.ErrorClass]string{
			agent.ClassNetwork:   "No se pudo conectar con el asistente. Comprueba tu conexión e inténtalo de nuevo.",
			agent.ClassServer:    "El asistente tiene problemas en este momento. Inténtalo de nuevo en un momento.",
			agent.ClassRateLimit: "Demasiadas solicitudes. Espera unos segundos e inténtalo de nuevo.",
			agent.ClassDeclared:  "El asistente no pudo completar la solicitud.",
			agent.ClassGeneric:   "Algo salió mal con la solicitud.",
		},
		codeMsgs: map[string]string{
			"club_not_found": "No encontré ese club. Prueba con la ciudad u otra forma de escribirlo.",
			"no_slots":       "Ninguna pista libre coincide con tu búsqueda.",
		},
		emptyReply: "(sin respuesta)",
	},
	language.German: {
		toolLabels: map[string]string{
			"find_slots":             "Suche nach freien Plätzen…",
			"create_booking_link":    "Buchungslink wird vorbereitet…",
			"find_clubs_by_location": "Suche Clubs in der Nähe…",
			"find_clubs_by_name":     "Suche den Club…",
		},
		classMsgs: map[agent.ErrorClass]string{
			agent.ClassNetwork:   "Der Assistent ist nicht erreichbar. Prüfe deine Verbindung und versuche es erneut.",
			agent.ClassServer:    "Der Assistent hat gerade Probleme. Bitte versuche es gleich noch einmal.",
			agent.ClassRateLimit: "Zu viele Anfragen. Warte ein paar Sekunden und versuche es erneut.",
			agent.ClassDeclared:  "Der Assistent konnte die Anfrage nicht abschließen.",
			agent.ClassGeneric:   "Bei der Anfrage ist etwas schiefgelaufen.",
		},
		codeMsgs: map[string]string{
			"club_not_found": "Ich konnte diesen Club nicht finden. Versuche es mit der Stadt oder einer anderen Schreibweise.",
			"no_slots":       "Keine freien Plätze passen zu deiner Suche.",
		},
		emptyReply: "(keine Antwort)",
	},
}

// =============================================================================
// LOCALIZER
// =============================================================================

// Localizer resolves display strings for one negotiated language. It
// satisfies the session engine's Localizer interface.
type Localizer struct {
	tag language.Tag
	cat *catalog
}

// New creates a localizer for the given language preference.
func New(pref string) *Localizer {
	tag := Negotiate(pref)
	return &Localizer{tag: tag, cat: catalogs[tag]}
}

// Tag returns the negotiated language.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// ToolLabel returns the status label for a tool. ok=false for suppressed
// tools. Unknown visible tools get a label derived from the name, so new
// server-side tools degrade gracefully.
func (l *Localizer) ToolLabel(tool string) (string, bool) {
	if tool == "" || suppressedTools[tool] {
		return "", false
	}
	if label, ok := l.cat.toolLabels[tool]; ok {
		return label, true
	}
	return humanizeToolName(tool), true
}

// ErrorMessage returns the notice for a failure class. For declared errors a
// known machine code takes precedence over the class message.
func (l *Localizer) ErrorMessage(class agent.ErrorClass, code string) string {
	if code != "" {
		if msg, ok := l.cat.codeMsgs[code]; ok {
			return msg
		}
	}
	if msg, ok := l.cat.classMsgs[class]; ok {
		return msg
	}
	return l.cat.classMsgs[agent.ClassGeneric]
}

// EmptyReply is the placeholder for a turn that produced no reply text.
func (l *Localizer) EmptyReply() string {
	return l.cat.emptyReply
}

// humanizeToolName turns "find_slots" into "Find slots…".
func humanizeToolName(tool string) string {
	words := strings.Split(tool, "_")
	phrase := strings.Join(words, " ")
	if phrase == "" {
		return "Working…"
	}
	return strings.ToUpper(phrase[:1]) + phrase[1:] + "…"
}
