package config

import (
	"fmt"
	"os"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	lcierrors "github.com/jcputney/elearning-module-parser/internal/errors"
)

// loadKDL parses an .elparser.kdl file shaped like:
//
//	parser {
//	    strict-mode true
//	    calculate-module-size false
//	}
func loadKDL(path string) (FileOptions, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return FileOptions{}, lcierrors.NewConfigError(path, "", err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return FileOptions{}, lcierrors.NewConfigError(path, "", fmt.Errorf("parse %s: %w", path, err))
	}

	var opts FileOptions
	for _, n := range doc.Nodes {
		if nodeName(n) != "parser" {
			continue
		}
		for _, cn := range n.Children {
			switch nodeName(cn) {
			case "strict-mode", "strict_mode":
				if b, ok := firstBoolArg(cn); ok {
					opts.StrictMode = &b
				}
			case "calculate-module-size", "calculate_module_size":
				if b, ok := firstBoolArg(cn); ok {
					opts.CalculateModuleSize = &b
				}
			}
		}
	}
	return opts, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}
