package report

import (
	"fmt"
	"os"
	"strings"
)

// WriteWarningsMarkdown lists problems that did not stop a run, such as
// client plan rows that could not be estimated.
func WriteWarningsMarkdown(path, title string, warnings []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, w := range warnings {
		fmt.Fprintf(&b, "- %s\n", w)
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}
