package docstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	d := Parse("")
	assert.Empty(t, d.Short)
	assert.Empty(t, d.Params)
	assert.Nil(t, d.Returns)
	assert.Empty(t, d.ReturnsDescription())
}

func TestParseFreeText(t *testing.T) {
	t.Parallel()

	d := Parse(`Grow the widget.

        Growth is capped by the frame size.
        `)
	assert.Equal(t, "Grow the widget.", d.Short)
	assert.Empty(t, d.Params)
	assert.Nil(t, d.Returns)
}

func TestParseReST(t *testing.T) {
	t.Parallel()

	d := Parse(`Grow the widget.

    :param amount: how much to grow,
        in pixels
    :type amount: int
    :param int limit: upper bound
    :returns: the new size
    :rtype: int
    `)
	assert.Equal(t, "Grow the widget.", d.Short)
	require.Len(t, d.Params, 2)
	assert.Equal(t, Param{Name: "amount", Description: "how much to grow, in pixels"}, d.Params[0])
	assert.Equal(t, Param{Name: "limit", Description: "upper bound"}, d.Params[1])
	require.NotNil(t, d.Returns)
	assert.Equal(t, "the new size", d.Returns.Description)
	assert.Equal(t, "upper bound", d.ParamDescription("limit"))
	assert.Empty(t, d.ParamDescription("missing"))
}

func TestParseEpydoc(t *testing.T) {
	t.Parallel()

	d := Parse(`Resize.
@param width: new width
@return: nothing useful
`)
	assert.Equal(t, "Resize.", d.Short)
	assert.Equal(t, "new width", d.ParamDescription("width"))
	assert.Equal(t, "nothing useful", d.ReturnsDescription())
}

func TestParseGoogle(t *testing.T) {
	t.Parallel()

	d := Parse(`Fetch rows.

    Args:
        table (str): Table name.
        limit: Maximum number of rows
            to return.
        *columns: Columns to select.

    Returns:
        list[dict]: The matching rows.

    Raises:
        KeyError: unknown table.
    `)
	assert.Equal(t, "Fetch rows.", d.Short)
	require.Len(t, d.Params, 3)
	assert.Equal(t, Param{Name: "table", Description: "Table name."}, d.Params[0])
	assert.Equal(t, "Maximum number of rows to return.", d.ParamDescription("limit"))
	assert.Equal(t, "Columns to select.", d.ParamDescription("columns"))
	assert.Equal(t, "The matching rows.", d.ReturnsDescription())
}

func TestParseGoogleUntypedReturn(t *testing.T) {
	t.Parallel()

	d := Parse("Count.\n\nReturns:\n    The number of items: always positive.\n")
	assert.Equal(t, "The number of items: always positive.", d.ReturnsDescription())
}

func TestParseNumpy(t *testing.T) {
	t.Parallel()

	d := Parse(`Compute a mean.

    Parameters
    ----------
    values : list of float
        Input values.
    weights : list of float, optional
        Per-value weights.

    Returns
    -------
    float
        The weighted mean.
    `)
	assert.Equal(t, "Compute a mean.", d.Short)
	require.Len(t, d.Params, 2)
	assert.Equal(t, Param{Name: "values", Description: "Input values."}, d.Params[0])
	assert.Equal(t, "Per-value weights.", d.ParamDescription("weights"))
	assert.Equal(t, "The weighted mean.", d.ReturnsDescription())
}

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"   \n  ", ""},
		{"One line.", "One line."},
		{"  First.\n    second\n      third\n  ", "First.\nsecond\n  third"},
		{"\n    Leading blank.\n    Body.\n", "Leading blank.\nBody."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clean(tt.raw), "Clean(%q)", tt.raw)
	}
}
