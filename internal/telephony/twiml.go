package telephony

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
)

// Minimal TwiML builder for the notification call. Only the verbs we emit.

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlSay struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

type twimlPause struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr,omitempty"`
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// RenderSayTwiML reads message, pauses, reads it a second time and hangs up.
func RenderSayTwiML(message, voice string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("telephony: message required for say")
	}

	r := twimlResponse{Verbs: []any{
		twimlSay{Voice: voice, Text: message},
		twimlPause{Length: 1},
		twimlSay{Voice: voice, Text: "Repeating. " + message},
		twimlHangup{},
	}}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
