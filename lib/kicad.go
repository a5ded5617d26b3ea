package lib

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	vlib "github.com/mcuadros/go-version"
	"go.uber.org/zap"
)

/*
	Container format written by this generator.
*/
const LibraryVersion = "20210201"

var (
	libraryHeader = fmt.Sprintf(
		"(kicad_symbol_lib (version %s) (generator xoviat/jsym)\n", LibraryVersion,
	)
	reVersion = regexp.MustCompile(`\(version (\d+)\)`)
)

const libraryFooter = ")\n"

/*
	Insert or replace one symbol record in a library container. The
	container is shared and hand-editable: everything outside the named
	record, including the header line and the closing delimiter, is
	preserved byte for byte.
*/
func MergeSymbol(path, name, record string, skipExisting bool, log *zap.SugaredLogger) error {
	if !Exists(path) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := writeFileAtomic(path, libraryHeader+libraryFooter); err != nil {
			return err
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	content := string(raw)

	if version := containerVersion(content); version != "" &&
		vlib.CompareSimple(LibraryVersion, version) == -1 {
		log.Warnw("library uses a newer format version",
			"file", path, "version", version, "generator", LibraryVersion)
	}

	opening := fmt.Sprintf("(symbol %q", name)
	if idx := strings.Index(content, opening); idx != -1 {
		if skipExisting {
			log.Infow("symbol already in library, skipping", "symbol", name, "file", path)
			return nil
		}

		start := recordStart(content, idx)
		end, err := recordEnd(content, idx)
		if err != nil {
			return fmt.Errorf("locate %s in %s: %w", name, path, err)
		}

		log.Infow("updating symbol", "symbol", name, "file", path)
		content = content[:start] + record + content[end:]
	} else {
		sentinel := strings.LastIndex(content, ")")
		if sentinel == -1 {
			return fmt.Errorf("library %s has no closing delimiter", path)
		}

		log.Infow("adding symbol", "symbol", name, "file", path)
		content = content[:sentinel] + record + libraryFooter
	}

	return writeFileAtomic(path, content)
}

func containerVersion(content string) string {
	line := content
	if i := strings.IndexByte(content, '\n'); i != -1 {
		line = content[:i]
	}

	if m := reVersion.FindStringSubmatch(line); m != nil {
		return m[1]
	}

	return ""
}

/*
	A record's span includes the indentation preceding its opening
	parenthesis.
*/
func recordStart(content string, open int) int {
	start := open
	for start > 0 && (content[start-1] == ' ' || content[start-1] == '\t') {
		start--
	}

	return start
}

/*
	Scan from the record's opening parenthesis to its matching close.
	Parentheses inside quoted strings do not count toward the nesting
	depth, so a property value like "RES (0402)" cannot end the record
	early, and indentation inside the body is irrelevant. Returns the
	index just past the closing parenthesis and its trailing newline.
*/
func recordEnd(content string, open int) (int, error) {
	depth := 0
	quoted := false
	for i := open; i < len(content); i++ {
		switch content[i] {
		case '\\':
			if quoted {
				i++
			}
		case '"':
			quoted = !quoted
		case '(':
			if !quoted {
				depth++
			}
		case ')':
			if !quoted {
				depth--
				if depth == 0 {
					end := i + 1
					if end < len(content) && content[end] == '\n' {
						end++
					}
					return end, nil
				}
			}
		}
	}

	return 0, fmt.Errorf("record is not parenthesis-balanced")
}

/*
	Rewrite through a temporary file in the same directory and rename it
	over the target, so an interrupted write never leaves the container
	truncated.
*/
func writeFileAtomic(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsym-*")
	if err != nil {
		return err
	}

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
