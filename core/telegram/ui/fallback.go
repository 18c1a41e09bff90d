// Package ui declares the reply surfaces a bot supplies to the shared routers.
package ui

import tele "gopkg.in/telebot.v4"

// FallbackProvider answers updates that reach no command, callback key or
// active session. Uploads other than photos share UnknownDocument.
type FallbackProvider interface {
	UnknownCallback() tele.HandlerFunc
	UnknownText() tele.HandlerFunc
	UnknownPhoto() tele.HandlerFunc
	UnknownDocument() tele.HandlerFunc
}
