package fixedpoint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GalaChain/dex-sub000/dexmath/fixedpoint"
)

func TestDivRoundModes(t *testing.T) {
	one := fixedpoint.NewFromInt64(1)
	three := fixedpoint.NewFromInt64(3)

	tests := map[string]struct {
		mode     fixedpoint.RoundingMode
		expected string
	}{
		"round down truncates toward zero": {
			mode:     fixedpoint.RoundDown,
			expected: "0.33",
		},
		"round up rounds away from zero": {
			mode:     fixedpoint.RoundUp,
			expected: "0.34",
		},
		"round bankers rounds half to even": {
			mode:     fixedpoint.RoundBankers,
			expected: "0.33",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := one.DivRound(three, 2, tc.mode)
			require.Equal(t, tc.expected, got.String())
		})
	}
}

func TestIsZeroAt(t *testing.T) {
	dust := fixedpoint.MustNewFromString("0.000000001")
	require.True(t, dust.IsZeroAt(fixedpoint.Q8))
	require.False(t, dust.IsZeroAt(fixedpoint.Q18))
	require.True(t, fixedpoint.Zero.IsZeroAt(fixedpoint.Q8))
}

func TestTruncateAt8And18(t *testing.T) {
	v := fixedpoint.MustNewFromString("1.123456789123456789999")
	require.Equal(t, "1.12345678", v.TruncateAt8().String())
	require.Equal(t, "1.123456789123456789", v.TruncateAt18().String())
}

func TestSqrtRoundTrips(t *testing.T) {
	tests := []string{"4", "2", "0.0001", "123456.789", "1.0001"}
	for _, s := range tests {
		v := fixedpoint.MustNewFromString(s)
		root := v.Sqrt()
		squared := root.Mul(root)
		diff := squared.Sub(v).Abs()
		require.Truef(t, diff.LessThan(fixedpoint.MustNewFromString("0.0000000001")),
			"sqrt(%s)^2 = %s, diff %s too large", s, squared, diff)
	}
}

func TestSqrtOfZeroAndNegativeIsZero(t *testing.T) {
	require.True(t, fixedpoint.Zero.Sqrt().IsZero())
	require.True(t, fixedpoint.NewFromInt64(-5).Sqrt().IsZero())
}

func TestPowNegativeExponent(t *testing.T) {
	base := fixedpoint.MustNewFromString("1.0001")
	positive := base.Pow(5)
	negative := base.Pow(-5)
	product := positive.MulRound(negative, fixedpoint.Q18, fixedpoint.RoundBankers)
	require.True(t, product.Sub(fixedpoint.NewFromInt64(1)).Abs().LessThan(fixedpoint.MustNewFromString("0.000001")))
}

func TestMinMax(t *testing.T) {
	a := fixedpoint.NewFromInt64(3)
	b := fixedpoint.NewFromInt64(5)
	require.True(t, fixedpoint.Min(a, b).Equal(a))
	require.True(t, fixedpoint.Max(a, b).Equal(b))
}

func TestJSONRoundTrip(t *testing.T) {
	v := fixedpoint.MustNewFromString("151.714011")
	b, err := v.MarshalJSON()
	require.NoError(t, err)

	var got fixedpoint.Dec
	require.NoError(t, got.UnmarshalJSON(b))
	require.True(t, v.Equal(got))
}
