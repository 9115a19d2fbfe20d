package docqa_test

import (
	"testing"

	"github.com/fwojciec/docqa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() docqa.Config {
		c := docqa.DefaultConfig()
		c.DBPath = "docqa.db"
		return c
	}

	t.Run("defaults with db path are valid", func(t *testing.T) {
		t.Parallel()

		c := valid()
		require.NoError(t, c.Validate())
		assert.Equal(t, 5, c.TopK)
		assert.InDelta(t, 0.3, c.MinScore, 1e-6)
	})

	tests := []struct {
		name   string
		mutate func(c *docqa.Config)
	}{
		{name: "unknown store", mutate: func(c *docqa.Config) { c.Store = "pinecone" }},
		{name: "qdrant without url", mutate: func(c *docqa.Config) { c.Store = docqa.StoreQdrant }},
		{name: "sqlite without path", mutate: func(c *docqa.Config) { c.DBPath = "" }},
		{name: "unknown provider", mutate: func(c *docqa.Config) { c.Provider = "cohere" }},
		{name: "unknown extractor", mutate: func(c *docqa.Config) { c.Extractor = "regex" }},
		{name: "zero top-k", mutate: func(c *docqa.Config) { c.TopK = 0 }},
		{name: "score above one", mutate: func(c *docqa.Config) { c.MinScore = 1.5 }},
		{name: "negative score", mutate: func(c *docqa.Config) { c.MinScore = -0.2 }},
		{name: "bad chunk options", mutate: func(c *docqa.Config) { c.Chunk.Overlap = 1000 }},
		{name: "zero dimension", mutate: func(c *docqa.Config) { c.Dimension = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid()
			tt.mutate(&c)
			err := c.Validate()

			require.Error(t, err)
			assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))
		})
	}
}
