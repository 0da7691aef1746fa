package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type windowConfig struct {
	capacity int
	name     string
	calls    []string
}

var errNegative = errors.New("negative capacity")

func withCapacity(n int) Option[*windowConfig] {
	return New(func(c *windowConfig) error {
		if n < 0 {
			return errNegative
		}
		c.capacity = n
		c.calls = append(c.calls, "capacity")

		return nil
	})
}

func withName(name string) Option[*windowConfig] {
	return NoError(func(c *windowConfig) {
		c.name = name
		c.calls = append(c.calls, "name")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &windowConfig{}
		require.NoError(t, Apply(cfg, withName("a"), withCapacity(10), withName("b")))
		require.Equal(t, 10, cfg.capacity)
		require.Equal(t, "b", cfg.name, "later options win")
		require.Equal(t, []string{"name", "capacity", "name"}, cfg.calls)
	})

	t.Run("stops at the first error", func(t *testing.T) {
		cfg := &windowConfig{}
		err := Apply(cfg, withName("a"), withCapacity(-1), withName("b"))
		require.ErrorIs(t, err, errNegative)
		require.Equal(t, "a", cfg.name)
		require.Equal(t, []string{"name"}, cfg.calls)
	})

	t.Run("skips nil options", func(t *testing.T) {
		var maybe Option[*windowConfig]
		cfg := &windowConfig{}
		require.NoError(t, Apply(cfg, maybe, withCapacity(3), nil))
		require.Equal(t, 3, cfg.capacity)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &windowConfig{capacity: 7}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 7, cfg.capacity)
	})
}

func TestOptionsAreReusable(t *testing.T) {
	opt := withCapacity(5)

	first, second := &windowConfig{}, &windowConfig{}
	require.NoError(t, Apply(first, opt))
	require.NoError(t, Apply(second, opt))
	require.Equal(t, 5, first.capacity)
	require.Equal(t, 5, second.capacity)
}
