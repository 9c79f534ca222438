package prompts

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortPromptSetSize(t *testing.T) {
	assert.GreaterOrEqual(t, len(ShortPrompts()), 10)
	assert.NotEmpty(t, LongContextPairs())
}

func TestNextContent_ShortComesFromSet(t *testing.T) {
	src := NewSource("")
	set := make(map[string]bool)
	for _, p := range ShortPrompts() {
		set[p] = true
	}

	for i := 0; i < 200; i++ {
		got := src.NextContent(false)
		assert.True(t, set[got], "unexpected prompt %q", got)
	}
}

func TestNextContent_LongJoinsContextAndPrompt(t *testing.T) {
	src := NewSourceFrom(nil, []Pair{{Context: "ctx", Prompt: "question"}})
	assert.Equal(t, "ctx\n\nquestion", src.NextContent(true))
}

func TestNextContent_LongUsesBuiltInPairs(t *testing.T) {
	src := NewSource("")
	got := src.NextContent(true)

	matched := false
	for _, p := range LongContextPairs() {
		if got == p.Context+"\n\n"+p.Prompt {
			matched = true
		}
	}
	assert.True(t, matched)
}

func TestNextContent_FixedPrompt(t *testing.T) {
	src := NewSource("hello there")
	for i := 0; i < 20; i++ {
		assert.Equal(t, "hello there", src.NextContent(false))
	}
	// long context sampling ignores the fixed prompt
	assert.True(t, strings.Contains(src.NextContent(true), "\n\n"))
}

func TestNextContent_EmptyTablesFallBack(t *testing.T) {
	src := NewSourceFrom(nil, nil)
	assert.Equal(t, DefaultPrompt, src.NextContent(false))
	assert.Equal(t, DefaultPrompt, src.NextContent(true))
}

func TestNextContent_CallerTablesAreCopied(t *testing.T) {
	short := []string{"a"}
	src := NewSourceFrom(short, nil)
	short[0] = "b"
	assert.Equal(t, "a", src.NextContent(false))
}

func TestNextContent_ConcurrentUse(t *testing.T) {
	src := NewSource("")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.NotEmpty(t, src.NextContent(j%2 == 0))
			}
		}()
	}
	wg.Wait()
}
