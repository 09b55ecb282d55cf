package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	p := NewCommandParser("aura_bot")

	cases := []struct {
		name      string
		text      string
		cmd       string
		args      []string
		isCommand bool
	}{
		{"plain command", "/rank", "rank", nil, true},
		{"command with args", "/give @bob 100", "give", []string{"@bob", "100"}, true},
		{"mention for this bot", "/rank@aura_bot", "rank", nil, true},
		{"mention case insensitive", "/rank@Aura_Bot", "rank", nil, true},
		{"mention for another bot", "/rank@other_bot", "", nil, false},
		{"uppercase command", "/RANK", "rank", nil, true},
		{"leading whitespace", "  /rank", "rank", nil, true},
		{"not a command", "hello there", "", nil, false},
		{"slash mid-text", "a /rank", "", nil, false},
		{"bare slash", "/", "", nil, false},
		{"bare mention", "/@aura_bot", "", nil, false},
		{"empty", "", "", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, args, isCommand := p.ParseCommand(tc.text)
			assert.Equal(t, tc.isCommand, isCommand)
			assert.Equal(t, tc.cmd, cmd)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestParseCommandWithoutBotName(t *testing.T) {
	p := NewCommandParser("")

	// Без известного имени адресные команды не отбрасываются
	cmd, _, isCommand := p.ParseCommand("/rank@whoever")
	assert.True(t, isCommand)
	assert.Equal(t, "rank", cmd)
}
