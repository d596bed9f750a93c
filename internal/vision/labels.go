package vision

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadLabels reads a newline-delimited labels file where line i (0-indexed)
// names model output index i. Blank lines are skipped.
func LoadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLabelsMissing, err)
	}
	defer f.Close()

	var labels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			labels = append(labels, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLabelsMissing, err)
	}
	if len(labels) == 0 {
		return nil, ErrLabelsMissing
	}
	return labels, nil
}
