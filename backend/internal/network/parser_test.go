package network

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gamenet/backend/pkg/errors"
)

const sampleText = "John is connected to Bryant, Debra, Walter." +
	"John likes to play The Movie: The Game, The Legend of Corgi, Dinosaur Diner." +
	"Bryant is connected to Olive, Ollie, Freda, Mercedes." +
	"Bryant likes to play City Comptroller: The Fiscal Dilemma, Super Mushroom Man." +
	"Mercedes is connected to Walter, Robin, Bryant." +
	"Mercedes likes to play The Legend of Corgi, Pirates in Java Island, Seahorse Adventures." +
	"Olive is connected to John, Ollie." +
	"Olive likes to play The Legend of Corgi, Starfleet Commander." +
	"Debra is connected to Walter, Levi, Jennie, Robin." +
	"Debra likes to play Seven Schemers, Pirates in Java Island, Dwarves and Swords." +
	"Walter is connected to John, Levi, Bryant." +
	"Walter likes to play Seahorse Adventures, Ninja Hamsters, Super Mushroom Man." +
	"Levi is connected to Ollie, John, Walter." +
	"Levi likes to play The Legend of Corgi, Seven Schemers, City Comptroller: The Fiscal Dilemma." +
	"Ollie is connected to Mercedes, Freda, Bryant." +
	"Ollie likes to play Call of Arms, Dwarves and Swords, The Movie: The Game." +
	"Jennie is connected to Levi, John, Freda, Robin." +
	"Jennie likes to play Super Mushroom Man, Dinosaur Diner, Call of Arms." +
	"Robin is connected to Ollie." +
	"Robin likes to play Call of Arms, Dwarves and Swords." +
	"Freda is connected to Olive, John, Debra." +
	"Freda likes to play Starfleet Commander, Ninja Hamsters, Seahorse Adventures."

func TestParse_SingleBlock(t *testing.T) {
	n, err := Parse("John is connected to Bryant, Debra, Walter. " +
		"John likes to play The Movie: The Game, The Legend of Corgi, Dinosaur Diner.")
	require.NoError(t, err)

	john, ok := n.Person("John")
	require.True(t, ok)
	assert.Equal(t, []string{"Bryant", "Debra", "Walter"}, john.Connections)
	assert.Equal(t, []string{"The Movie: The Game", "The Legend of Corgi", "Dinosaur Diner"}, john.Games)
	assert.Equal(t, 1, n.Len())
}

func TestParse_FullNetwork(t *testing.T) {
	n, err := Parse(sampleText)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"John", "Bryant", "Mercedes", "Olive", "Debra", "Walter",
		"Levi", "Ollie", "Jennie", "Robin", "Freda",
	}, n.Names())

	robin, ok := n.Person("Robin")
	require.True(t, ok)
	assert.Equal(t, []string{"Ollie"}, robin.Connections)
	assert.Equal(t, []string{"Call of Arms", "Dwarves and Swords"}, robin.Games)
}

func TestParse_WhitespaceBetweenSentences(t *testing.T) {
	text := "\n  John is connected to Bryant.\n\tJohn likes to play Chess.\n\n" +
		"Bryant is connected to John.   Bryant likes to play Go.  \n"

	n, err := Parse(text)
	require.NoError(t, err)

	conns, ok := n.GetConnections("Bryant")
	require.True(t, ok)
	assert.Equal(t, []string{"John"}, conns)

	games, ok := n.GetGamesLiked("John")
	require.True(t, ok)
	assert.Equal(t, []string{"Chess"}, games)
}

func TestParse_EmptyLists(t *testing.T) {
	n, err := Parse("Hermit is connected to. Hermit likes to play.")
	require.NoError(t, err)

	hermit, ok := n.Person("Hermit")
	require.True(t, ok)
	assert.NotNil(t, hermit.Connections)
	assert.Empty(t, hermit.Connections)
	assert.NotNil(t, hermit.Games)
	assert.Empty(t, hermit.Games)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t\n"} {
		n, err := Parse(text)
		require.NoError(t, err)
		assert.Equal(t, 0, n.Len())
	}
}

func TestParse_LastBlockWins(t *testing.T) {
	n, err := Parse("John is connected to Bryant. John likes to play Chess." +
		"Bryant is connected to John. Bryant likes to play Go." +
		"John is connected to Debra. John likes to play Checkers.")
	require.NoError(t, err)

	john, ok := n.Person("John")
	require.True(t, ok)
	assert.Equal(t, []string{"Debra"}, john.Connections)
	assert.Equal(t, []string{"Checkers"}, john.Games)
	// first position is kept
	assert.Equal(t, []string{"John", "Bryant"}, n.Names())
}

func TestParse_NameContainingMarkerText(t *testing.T) {
	n, err := Parse("Otto is connected to Toby. Otto likes to play Playtime.")
	require.NoError(t, err)

	otto, ok := n.Person("Otto")
	require.True(t, ok)
	assert.Equal(t, []string{"Toby"}, otto.Connections)
	assert.Equal(t, []string{"Playtime"}, otto.Games)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		sentence string
		offset   int
	}{
		{
			name:     "missing connections phrase",
			text:     "John knows Bryant. John likes to play Chess.",
			sentence: "John knows Bryant",
			offset:   0,
		},
		{
			name:     "missing games phrase",
			text:     "John is connected to Bryant. John enjoys Chess.",
			sentence: "John enjoys Chess",
			offset:   29,
		},
		{
			name:     "missing games sentence",
			text:     "John is connected to Bryant.",
			sentence: "John is connected to Bryant",
			offset:   0,
		},
		{
			name:     "unterminated trailing text",
			text:     "John is connected to Bryant. John likes to play Chess. Bryant is",
			sentence: "Bryant is",
			offset:   55,
		},
		{
			name:     "unterminated games sentence",
			text:     "John is connected to Bryant. John likes to play Chess",
			sentence: "John likes to play Chess",
			offset:   29,
		},
		{
			name:     "subject mismatch",
			text:     "John is connected to Bryant. Bryant likes to play Chess.",
			sentence: "Bryant likes to play Chess",
			offset:   29,
		},
		{
			name:     "single word sentence",
			text:     "John. John likes to play Chess.",
			sentence: "John",
			offset:   0,
		},
		{
			name:     "empty list item",
			text:     "John is connected to Bryant, , Debra. John likes to play Chess.",
			sentence: "John is connected to Bryant, , Debra",
			offset:   0,
		},
		{
			name:     "trailing separator in connections",
			text:     "A is connected to B, C, . A likes to play X.",
			sentence: "A is connected to B, C,",
			offset:   0,
		},
		{
			name:     "trailing separator in games",
			text:     "A is connected to B. A likes to play X, .",
			sentence: "A likes to play X,",
			offset:   21,
		},
		{
			name:     "doubled comma",
			text:     "A is connected to B. A likes to play X,, Y.",
			sentence: "A likes to play X,, Y",
			offset:   21,
		},
		{
			name:     "extra space before item",
			text:     "A is connected to  B. A likes to play X.",
			sentence: "A is connected to  B",
			offset:   0,
		},
		{
			name:     "extra space inside separator",
			text:     "A is connected to B,  C. A likes to play X.",
			sentence: "A is connected to B,  C",
			offset:   0,
		},
		{
			name:     "phrase glued to list",
			text:     "John is connected toBryant. John likes to play Chess.",
			sentence: "John is connected toBryant",
			offset:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse(tt.text)
			require.Error(t, err)
			assert.Nil(t, n)

			var malformed *apperrors.ErrMalformedInput
			require.True(t, errors.As(err, &malformed), "got %T", err)
			assert.Equal(t, tt.sentence, malformed.Sentence)
			assert.Equal(t, tt.offset, malformed.Offset)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeParse))
		})
	}
}

func TestParseReader(t *testing.T) {
	n, err := ParseReader(strings.NewReader(sampleText))
	require.NoError(t, err)
	assert.Equal(t, 11, n.Len())
}
