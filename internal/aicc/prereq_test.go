package aicc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_MandatoryIffNoAsterisk(t *testing.T) {
	cases := []struct {
		raw       string
		mandatory bool
	}{
		{"LESSON01", true},
		{"LESSON01,LESSON02", true},
		{"*LESSON01", false},
		{"LESSON01 & *LESSON02", false},
		{"(LESSON01|LESSON02)", true},
		{"!LESSON01", true},
	}
	for _, c := range cases {
		expr := Parse(c.raw)
		require.Equal(t, c.mandatory, expr.Mandatory, "raw=%q", c.raw)
	}
}

func TestParse_ANDORNOTPrecedence(t *testing.T) {
	expr := Parse("A & B | C")
	require.NotNil(t, expr.AST)
	require.Equal(t, NodeOr, expr.AST.Kind, "OR binds loosest, so the root is the OR node")
	require.Equal(t, NodeAnd, expr.AST.Children[0].Kind)
}

func TestParse_ReferencedAndOptionalIdentifiers(t *testing.T) {
	expr := Parse("LESSON01 & *LESSON02 & *LESSON02")
	require.ElementsMatch(t, []string{"LESSON01", "LESSON02"}, expr.Referenced)
	require.ElementsMatch(t, []string{"LESSON02"}, expr.Optional)
}

func TestParse_StructuralFailureFallsBackButStillMandatoryLawHolds(t *testing.T) {
	expr := Parse("LESSON01 &&& *LESSON02")
	require.Nil(t, expr.AST, "mismatched operators should not produce a trustworthy tree")
	require.False(t, expr.Mandatory, "the '*' is present, so the law still computes mandatory=false")
	require.Contains(t, expr.Referenced, "LESSON01")
	require.Contains(t, expr.Referenced, "LESSON02")
	require.Contains(t, expr.Optional, "LESSON02")
}

func TestParse_MismatchedParensFallsBack(t *testing.T) {
	expr := Parse("(LESSON01 & LESSON02")
	require.Nil(t, expr.AST)
	require.True(t, expr.Mandatory)
}

func TestParse_EmptyExpression(t *testing.T) {
	expr := Parse("")
	require.Nil(t, expr.AST)
	require.True(t, expr.Mandatory)
	require.Empty(t, expr.Referenced)
}

func TestParse_NotOperator(t *testing.T) {
	expr := Parse("NOT LESSON01")
	require.NotNil(t, expr.AST)
	require.Equal(t, NodeNot, expr.AST.Kind)
	require.Equal(t, "LESSON01", expr.AST.Children[0].Ident)
}
