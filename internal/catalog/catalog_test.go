package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategoryLabel(t *testing.T) {
	t.Parallel()

	general := "General"
	require.Equal(t, "General", Channel{Category: &general}.CategoryLabel())
	require.Equal(t, UncategorizedLabel, Channel{}.CategoryLabel())
}

func TestTotalEstimated(t *testing.T) {
	t.Parallel()

	require.Zero(t, TotalEstimated(nil))
	require.Equal(t, 1250, TotalEstimated([]Channel{
		{EstimatedMessages: 1000},
		{EstimatedMessages: 250},
		{},
	}))
}
