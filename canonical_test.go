package authgate_test

import (
	"testing"

	authgate "github.com/goliatone/go-authgate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	t.Run("folds dots and plus suffixes on gmail", func(t *testing.T) {
		cases := []string{
			"jane.doe@gmail.com",
			"janedoe@gmail.com",
			"jane.doe+newsletter@gmail.com",
			"j.a.n.e.d.o.e@GMAIL.COM",
			"janedoe+spam+filter@gmail.com",
		}

		for _, input := range cases {
			got, err := authgate.Canonicalize(input)
			require.NoError(t, err, "input %q", input)
			assert.Equal(t, "janedoe@gmail.com", got, "input %q", input)
		}
	})

	t.Run("keeps local part intact for other domains", func(t *testing.T) {
		got, err := authgate.Canonicalize("jane.doe+tag@example.com")
		require.NoError(t, err)
		assert.Equal(t, "jane.doe+tag@example.com", got)
	})

	t.Run("lowercases the domain only", func(t *testing.T) {
		got, err := authgate.Canonicalize("Jane.Doe@Example.COM")
		require.NoError(t, err)
		assert.Equal(t, "Jane.Doe@example.com", got)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		got, err := authgate.Canonicalize("  user@example.com\t")
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", got)
	})

	t.Run("is idempotent", func(t *testing.T) {
		inputs := []string{
			"jane.doe+x@gmail.com",
			"Jane.Doe@Example.COM",
			"user@host.org",
		}

		for _, input := range inputs {
			once, err := authgate.Canonicalize(input)
			require.NoError(t, err)

			twice, err := authgate.Canonicalize(once)
			require.NoError(t, err)
			assert.Equal(t, once, twice, "input %q", input)
		}
	})

	t.Run("rejects invalid addresses", func(t *testing.T) {
		inputs := []string{
			"",
			"   ",
			"no-at-sign",
			"a@b@c",
			"+user@example.com",
			"@example.com",
			"user@",
			"+tag@gmail.com",
			"...+anything@gmail.com",
		}

		for _, input := range inputs {
			_, err := authgate.Canonicalize(input)
			assert.ErrorIs(t, err, authgate.ErrInvalidEmail, "input %q", input)
		}
	})
}
