package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thenoetrevino/tablo/internal/models"
	"github.com/thenoetrevino/tablo/internal/types"
)

// ParseColumn resolves a column id or title given on the command line
func ParseColumn(s string) (types.ColumnID, error) {
	id, ok := types.ParseColumnID(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", models.ErrColumnNotFound, s)
	}
	return id, nil
}

// FormatAvailableColumns lists the column ids for suggestions
func FormatAvailableColumns() string {
	ids := types.ColumnIDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}

// ReadDescription returns value, or all of stdin when value is "-"
func ReadDescription(value string, stdin io.Reader) (string, error) {
	if value != "-" {
		return value, nil
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
