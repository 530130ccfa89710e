package qbk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/quickdoc/qbk/textedit"
)

// loadSource reads one input file and normalizes its text for the
// grammar: LF line endings and spaces only, so cursor columns match
// what an editor shows.
func loadSource(fileName string) ([]byte, error) {
	src, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return textedit.Normalize(src), nil
}

// Parse compiles one top-level input file into st. The header grammar
// runs first and is mandatory unless ignoreDocInfo is set; the body
// grammar runs after it. All diagnostics go through st.Report and are
// accounted in st.ErrorCount and st.WarningCount.
func Parse(fileName string, st *State, ignoreDocInfo bool) {
	key := "file:" + fileName
	if !st.Enter(key) {
		st.ErrorCount++
		st.Report.FileError(fileName, "Infinite loop detected: file '%s' includes itself.", fileName)
		return
	}
	defer st.Leave(key)

	src, err := loadSource(fileName)
	if err != nil {
		st.ErrorCount++
		st.Report.FileError(fileName, "Unable to open file: %v.", err)
		return
	}

	st.InstallPredefinedMacros(fileName)
	st.ApplyPresetDefines()

	p := newParser(NewCursor(fileName, src), st)

	info, ok := p.parseDocInfo()
	if !ok && !ignoreDocInfo {
		pos := p.furthest
		st.ErrorCount++
		st.Report.Error(pos, "Doc Info error near column %d.", pos.Column)
		return
	}
	if ok && info.SourceMode != "" {
		st.SourceMode = strings.TrimSpace(info.SourceMode)
	}

	renderInfo := ok && !ignoreDocInfo && !info.Ignore
	if renderInfo {
		st.Encoder.DocInfoPre(st.Out, info, st.Config)
	}

	complete := p.parseBlocks()

	if complete && st.SectionLevel > 0 {
		st.WarningCount++
		st.Report.FileWarn(fileName, "Warning missing [endsect] detected at end of file.")
		for st.SectionLevel > 0 {
			st.Encoder.EndSection(st.Out)
			st.SectionLevel--
		}
	}
	if complete && renderInfo {
		st.Encoder.DocInfoPost(st.Out, info)
	}
}

// processInclude runs the grammar over an included file into the same
// state. The included file's own header, when present, contributes its
// source-mode but is never rendered again.
func (p *parser) processInclude(path string, pos Position) bool {
	resolved, err := p.resolveInclude(path)
	if err != nil {
		return p.referenceError(pos, "Unable to open included file: %s.", path)
	}

	key := "file:" + resolved
	if !p.st.Enter(key) {
		return p.referenceError(pos, "Infinite loop detected: file '%s' includes itself.", path)
	}
	defer p.st.Leave(key)

	src, err := loadSource(resolved)
	if err != nil {
		return p.referenceError(pos, "Unable to open included file: %s.", path)
	}

	p.st.Log.Debugw("including file", "path", resolved, "from", pos.Origin, "line", pos.Line)

	child := newParser(NewCursor(resolved, src), p.st)
	if info, ok := child.parseDocInfo(); ok && info.SourceMode != "" {
		p.st.SourceMode = strings.TrimSpace(info.SourceMode)
	}
	if !child.parseBlocks() {
		p.aborted = true
		return false
	}
	return true
}

// resolveInclude searches the directory of the including file first and
// the configured include path after it.
func (p *parser) resolveInclude(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}
	dirs := append([]string{filepath.Dir(p.c.Origin())}, p.st.Config.IncludePath...)
	for _, dir := range dirs {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", os.ErrNotExist
}

// Process compiles one input file end to end and returns the rendered
// output plus the process status: 0 on success, 1 when any error was
// reported. Diagnostics and the error count summary go to diag.
func Process(inputName string, cfg *Config, diag io.Writer, logger *zap.SugaredLogger) ([]byte, int) {
	rep := NewReporter(diag, cfg.MSErrors)

	enc, err := NewEncoder(cfg.Encoding)
	if err != nil {
		rep.FileError(inputName, "%v", err)
		return nil, 1
	}

	st := NewState(cfg, enc, rep, logger)
	Parse(inputName, st, false)

	if st.ErrorCount > 0 {
		fmt.Fprintf(diag, "Error count: %d.\n", st.ErrorCount)
		return nil, 1
	}

	out := st.Out.String()
	if cfg.PrettyPrint {
		pretty, err := PostProcess(out, cfg.Indent, cfg.LineWidth)
		if err != nil {
			st.Log.Warnw("pretty printing failed, emitting unformatted output", "error", err)
		} else {
			out = pretty
		}
	}
	return []byte(out), 0
}
