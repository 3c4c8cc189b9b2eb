package selector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		n    int
		want []Page
	}{
		{"empty still has one page", 0, []Page{{0, 0}}},
		{"fits on first page", 5, []Page{{0, 5}}},
		{"exactly first page", 12, []Page{{0, 12}}},
		{"one overflow entry", 13, []Page{{0, 12}, {12, 13}}},
		{"full second page", 27, []Page{{0, 12}, {12, 27}}},
		{"third page starts", 28, []Page{{0, 12}, {12, 27}, {27, 28}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Paginate(tc.n))
		})
	}
}

func TestPaginateCoversAllEntriesOnce(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 100; n++ {
		pages := Paginate(n)
		require.NotEmpty(t, pages)
		next := 0
		for i, p := range pages {
			require.Equal(t, next, p.Start, "n=%d page=%d", n, i)
			require.GreaterOrEqual(t, p.End, p.Start)
			if i == 0 {
				require.LessOrEqual(t, p.Len(), firstPageCapacity)
			} else {
				require.Positive(t, p.Len())
				require.LessOrEqual(t, p.Len(), pageCapacity)
			}
			next = p.End
		}
		require.Equal(t, n, next, "n=%d", n)
	}
}
