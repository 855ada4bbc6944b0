package network

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	apperrors "gamenet/backend/pkg/errors"
)

const (
	connectionsPhrase = " is connected to"
	gamesPhrase       = " likes to play"
	listSeparator     = ", "
	sentenceEnd       = '.'
)

// Parse builds a Network from text made of repeated two-sentence blocks:
//
//	John is connected to Bryant, Debra, Walter.
//	John likes to play The Movie: The Game, The Legend of Corgi, Dinosaur Diner.
//
// Sentences end at the first period, so names and game titles must not
// contain one. Whitespace between sentences is ignored. A later block for the
// same name replaces the earlier record.
//
// Any deviation from the grammar fails the whole parse with an
// *errors.ErrMalformedInput naming the offending sentence.
func Parse(text string) (*Network, error) {
	n := New()
	pos := 0

	for strings.TrimSpace(text[pos:]) != "" {
		rest := text[pos:]

		connEnd := strings.IndexByte(rest, sentenceEnd)
		if connEnd < 0 {
			return nil, malformed(rest, pos, "sentence is not terminated by a period")
		}
		connRaw := rest[:connEnd]
		gamesStart := pos + connEnd + 1

		gamesEnd := strings.IndexByte(text[gamesStart:], sentenceEnd)
		if gamesEnd < 0 {
			if strings.TrimSpace(text[gamesStart:]) == "" {
				return nil, malformed(connRaw, pos, "missing games sentence")
			}
			return nil, malformed(text[gamesStart:], gamesStart, "sentence is not terminated by a period")
		}
		gamesRaw := text[gamesStart : gamesStart+gamesEnd]

		name, person, err := parseBlock(connRaw, pos, gamesRaw, gamesStart)
		if err != nil {
			return nil, err
		}
		n.put(name, person)

		pos = gamesStart + gamesEnd + 1
	}

	return n, nil
}

// ParseReader reads r to the end and parses the result.
func ParseReader(r io.Reader) (*Network, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read network text: %w", err)
	}
	return Parse(string(data))
}

func parseBlock(connRaw string, connOffset int, gamesRaw string, gamesOffset int) (string, *Person, error) {
	name, connections, err := parseSentence(connRaw, connOffset, connectionsPhrase)
	if err != nil {
		return "", nil, err
	}

	subject, games, err := parseSentence(gamesRaw, gamesOffset, gamesPhrase)
	if err != nil {
		return "", nil, err
	}
	if subject != name {
		return "", nil, malformed(gamesRaw, gamesOffset,
			fmt.Sprintf("games sentence is about %q, expected %q", subject, name))
	}

	return name, &Person{Connections: connections, Games: games}, nil
}

// parseSentence splits "<Name><phrase> <item>, <item>" into the name and its
// items. An empty item list is allowed.
func parseSentence(raw string, offset int, phrase string) (string, []string, error) {
	sentence := strings.TrimSpace(raw)

	space := strings.IndexByte(sentence, ' ')
	if space <= 0 {
		return "", nil, malformed(raw, offset, fmt.Sprintf("expected %q", "<name>"+phrase))
	}
	name := sentence[:space]

	list, ok := strings.CutPrefix(sentence[space:], phrase)
	if !ok {
		return "", nil, malformed(raw, offset, fmt.Sprintf("expected %q after %q", strings.TrimSpace(phrase), name))
	}
	if list != "" && !strings.HasPrefix(list, " ") {
		return "", nil, malformed(raw, offset, fmt.Sprintf("expected a space after %q", strings.TrimSpace(phrase)))
	}

	items := splitList(list)
	for _, item := range items {
		if reason := badItem(item); reason != "" {
			return "", nil, malformed(raw, offset, reason)
		}
	}
	return name, items, nil
}

// splitList splits the text following a phrase. list is either empty or
// starts with the single space that separates the phrase from the items.
func splitList(list string) []string {
	if list == "" {
		return []string{}
	}
	return strings.Split(list[1:], listSeparator)
}

// badItem explains why item cannot be a name or title, or returns "".
func badItem(item string) string {
	switch {
	case item == "":
		return "empty list item"
	case strings.TrimSpace(item) != item:
		return fmt.Sprintf("list item %q has surrounding whitespace", item)
	case strings.HasSuffix(item, ","):
		return fmt.Sprintf("list item %q ends with a separator", item)
	}
	return ""
}

func malformed(raw string, offset int, reason string) error {
	lead := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
	return apperrors.NewMalformedInput(strings.TrimSpace(raw), offset+lead, reason)
}
