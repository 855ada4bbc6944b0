package network

import (
	"io"
	"strings"
)

// String renders the network in the sentence grammar accepted by Parse, one
// sentence per line, in insertion order.
func (n *Network) String() string {
	var sb strings.Builder
	for _, name := range n.order {
		p := n.people[name]
		writeSentence(&sb, name, connectionsPhrase, p.Connections)
		writeSentence(&sb, name, gamesPhrase, p.Games)
	}
	return sb.String()
}

// WriteTo writes String() to w.
func (n *Network) WriteTo(w io.Writer) (int64, error) {
	written, err := io.WriteString(w, n.String())
	return int64(written), err
}

func writeSentence(sb *strings.Builder, name, phrase string, items []string) {
	sb.WriteString(name)
	sb.WriteString(phrase)
	if len(items) > 0 {
		sb.WriteByte(' ')
		sb.WriteString(strings.Join(items, listSeparator))
	}
	sb.WriteByte(sentenceEnd)
	sb.WriteByte('\n')
}
