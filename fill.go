package sheetfill

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

// ErrNoTemplate is returned when neither WithTemplate nor WithTemplateReader was given.
var ErrNoTemplate = errors.New("no template specified: use WithTemplate or WithTemplateReader")

// createOutput opens the file Filler.Fill writes to.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// Filler renders xlsx templates. It wraps a Renderer and handles opening the
// template workbook, choosing the sheet and writing the result.
type Filler struct {
	opts     *Options
	renderer *Renderer
}

// NewFiller creates a Filler with the given options.
func NewFiller(opts ...Option) *Filler {
	r := NewRenderer(opts...)
	return &Filler{opts: r.opts, renderer: r}
}

// Fill processes a template file and writes the populated output to outputPath.
func Fill(templatePath, outputPath string, data map[string]any, opts ...Option) error {
	allOpts := append([]Option{WithTemplate(templatePath)}, opts...)
	_, err := NewFiller(allOpts...).Fill(data, outputPath)
	return err
}

// FillBytes processes a template file and returns the populated output as bytes.
func FillBytes(templatePath string, data map[string]any, opts ...Option) ([]byte, error) {
	allOpts := append([]Option{WithTemplate(templatePath)}, opts...)
	out, _, err := NewFiller(allOpts...).FillBytes(data)
	return out, err
}

// FillReader processes a template from an io.Reader and writes to an io.Writer.
func FillReader(template io.Reader, output io.Writer, data map[string]any, opts ...Option) error {
	allOpts := append([]Option{WithTemplateReader(template)}, opts...)
	_, err := NewFiller(allOpts...).FillWriter(data, output)
	return err
}

// Fill processes the template with data and writes to outputPath.
// A partially written file is removed on failure.
func (f *Filler) Fill(data map[string]any, outputPath string) (*Report, error) {
	out, err := createOutput(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create output file %q: %w", outputPath, err)
	}

	rep, err := f.FillWriter(data, out)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output file %q: %w", outputPath, cerr)
	}
	if err != nil {
		os.Remove(outputPath)
		return rep, err
	}
	return rep, nil
}

// FillBytes processes the template with data and returns the output as bytes.
func (f *Filler) FillBytes(data map[string]any) ([]byte, *Report, error) {
	var buf bytes.Buffer
	rep, err := f.FillWriter(data, &buf)
	if err != nil {
		return nil, rep, err
	}
	return buf.Bytes(), rep, nil
}

// FillWriter processes the template with data and writes to w.
func (f *Filler) FillWriter(data map[string]any, w io.Writer) (*Report, error) {
	file, rep, err := f.FillWorkbook(data)
	if err != nil {
		return rep, err
	}
	defer file.Close()

	if err := file.Write(w); err != nil {
		return rep, fmt.Errorf("write workbook: %w", err)
	}
	return rep, nil
}

// FillWorkbook renders the template and returns the open workbook for further
// processing. The caller must Close it.
func (f *Filler) FillWorkbook(data map[string]any) (*excelize.File, *Report, error) {
	file, err := f.openTemplate()
	if err != nil {
		return nil, nil, err
	}

	g, err := f.sheetGrid(file)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	f.opts.logger.Info("rendering workbook", "template", f.templateName(), "sheet", g.Sheet())

	rep, err := f.renderer.Render(g, data)
	if err != nil {
		file.Close()
		return nil, rep, fmt.Errorf("render sheet %q: %w", g.Sheet(), err)
	}

	if f.opts.recalculateOnOpen {
		fullCalc := true
		if err := file.SetCalcProps(&excelize.CalcPropsOptions{FullCalcOnLoad: &fullCalc}); err != nil {
			file.Close()
			return nil, rep, fmt.Errorf("set calc properties: %w", err)
		}
	}

	if f.opts.preWrite != nil {
		if err := f.opts.preWrite(file); err != nil {
			file.Close()
			return nil, rep, fmt.Errorf("pre-write callback: %w", err)
		}
	}
	return file, rep, nil
}

// sheetGrid selects the sheet named by WithSheet, or the active sheet.
func (f *Filler) sheetGrid(file *excelize.File) (*SheetGrid, error) {
	sheet := f.opts.sheet
	if sheet == "" {
		sheet = ActiveSheet(file)
	}
	return NewSheetGrid(file, sheet)
}

// openTemplate opens the template from file path or reader.
func (f *Filler) openTemplate() (*excelize.File, error) {
	if f.opts.templateReader != nil {
		file, err := excelize.OpenReader(f.opts.templateReader)
		if err != nil {
			return nil, fmt.Errorf("open template reader: %w", err)
		}
		return file, nil
	}
	if f.opts.templatePath != "" {
		file, err := excelize.OpenFile(f.opts.templatePath)
		if err != nil {
			return nil, fmt.Errorf("open template %q: %w", f.opts.templatePath, err)
		}
		return file, nil
	}
	return nil, ErrNoTemplate
}

func (f *Filler) templateName() string {
	if f.opts.templatePath != "" {
		return f.opts.templatePath
	}
	return "<reader>"
}
