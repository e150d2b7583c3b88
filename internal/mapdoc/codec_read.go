package mapdoc

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driven"
	"github.com/custodia-labs/mapstore/internal/logger"
)

// Read replaces the document with the map file at path.
//
// Every byte read is hashed into the fingerprint checksum. On failure the
// document is left cleared. A successful read raises the changed flag
// returned by TakeChanged.
func (d *Document) Read(ctx context.Context, path string) error {
	if path == "" {
		if d.settings.AllowEmptyFileName {
			return nil
		}
		return fmt.Errorf("read map: empty file name: %w", domain.ErrInvalidInput)
	}

	d.Clear()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open map %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat map %s: %w", path, err)
	}

	tok, err := d.startRead()
	if err != nil {
		return err
	}
	defer d.finishRead()

	sum := md5.New()
	r := newFileReader(d, tok, path)
	err = tok.Parse(ctx, io.TeeReader(f, sum))
	if err == nil && !r.sawCategory {
		err = fmt.Errorf("empty file: %w", domain.ErrUnrecognizedCategory)
	}
	if err != nil {
		d.Clear()
		if errors.Is(err, domain.ErrReadCancelled) {
			logger.Warn("read of %s cancelled", path)
		}
		return fmt.Errorf("failed to read map %s: %w", path, err)
	}

	if len(d.remainder) > 0 {
		d.remainderModified = touch()
	}
	d.fingerprint = domain.Fingerprint{
		OriginName: d.settings.OriginName,
		FileName:   path,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
	}
	copy(d.fingerprint.Checksum[:], sum.Sum(nil))
	d.category = domain.MaxCategory(r.category, d.inferredCategory())
	d.changed = true

	logger.Debug("read %s: %s, %d source(s), %d object(s), checksum %s",
		path, d.category, len(d.sources), d.objects.Len(), d.fingerprint.ChecksumString())
	return nil
}

// Cancel stops a running read at the next line boundary. Later reads of
// this document are cancelled immediately. Safe to call from any goroutine.
func (d *Document) Cancel() {
	d.cancelled.Store(true)
	d.readMu.Lock()
	defer d.readMu.Unlock()
	if d.reading != nil {
		d.reading.Cancel()
	}
}

func (d *Document) startRead() (driven.LineTokenizer, error) {
	if d.newTokenizer == nil {
		return nil, errors.New("no line tokenizer configured")
	}
	tok := d.newTokenizer()
	d.readMu.Lock()
	d.reading = tok
	d.readMu.Unlock()
	if d.cancelled.Load() {
		tok.Cancel()
	}
	return tok, nil
}

func (d *Document) finishRead() {
	d.readMu.Lock()
	d.reading = nil
	d.readMu.Unlock()
}

// fileReader holds the parse state of one read.
//
// Section keywords are registered once the category line is seen. The
// first data keyword removes them so that a data section runs until the
// next data keyword or the end of the file.
type fileReader struct {
	doc  *Document
	tok  driven.LineTokenizer
	path string

	category    domain.Category
	sawCategory bool

	sectionKeywords []string
	scanKeywords    map[string][]string

	inData    bool
	dataLayer *ScanLayer
	dataLines bool
}

func newFileReader(d *Document, tok driven.LineTokenizer, path string) *fileReader {
	r := &fileReader{doc: d, tok: tok, path: path, scanKeywords: make(map[string][]string)}
	tok.SetDefaultHandler(r.handleCategory)
	return r
}

func (r *fileReader) warn(line driven.Line, what string) {
	logger.Warn("%s:%d: ignoring malformed %s: %q", r.path, line.Number, what, line.Text)
}

func (r *fileReader) handleCategory(line driven.Line) error {
	c := domain.ParseCategory(line.Keyword)
	if !c.IsValid() {
		return fmt.Errorf("line %d %q: %w", line.Number, line.Text, domain.ErrUnrecognizedCategory)
	}
	r.category = c
	r.sawCategory = true
	r.tok.SetDefaultHandler(r.handleOther)

	r.addSection(domain.KeywordSources, r.handleSources)
	r.addSection(domain.KeywordOrigin, r.handleOrigin)
	for _, name := range r.doc.info.Names() {
		r.addSection(domain.InfoKeyword(name), r.infoHandler(name))
	}
	for _, reg := range []*ObjectRegistry{r.doc.objects, r.doc.inactive, r.doc.children} {
		r.addSection(reg.Keyword(), r.objectHandler(reg))
	}
	for _, t := range r.doc.sources {
		r.registerScan(t)
	}
	return nil
}

func (r *fileReader) addSection(keyword string, fn driven.LineHandler) {
	r.tok.AddHandler(keyword, fn)
	r.sectionKeywords = append(r.sectionKeywords, keyword)
}

func (r *fileReader) registerScan(scanType string) {
	var keywords []string
	add := func(kw string, fn driven.LineHandler) {
		full := domain.ScanKeyword(scanType, kw)
		r.tok.AddHandler(full, fn)
		keywords = append(keywords, full)
	}
	for _, kw := range []string{
		domain.KeywordDisplay, domain.KeywordMinPos, domain.KeywordMaxPos,
		domain.KeywordNumPoints, domain.KeywordPointsAreSorted, domain.KeywordResolution,
		domain.KeywordLineMinPos, domain.KeywordLineMaxPos, domain.KeywordNumLines,
		domain.KeywordLinesAreSorted,
	} {
		add(kw, r.scanHeaderHandler(scanType, kw))
	}
	add(domain.KeywordPointData, r.dataHandler(scanType, false))
	add(domain.KeywordLineData, r.dataHandler(scanType, true))
	r.scanKeywords[scanType] = keywords
}

func (r *fileReader) unregisterScan(scanType string) {
	for _, kw := range r.scanKeywords[scanType] {
		r.tok.RemoveHandler(kw)
	}
	delete(r.scanKeywords, scanType)
}

func (r *fileReader) handleSources(line driven.Line) error {
	for _, t := range r.doc.sources {
		r.unregisterScan(t)
	}
	if err := r.doc.SetSources(line.Args); err != nil {
		return fmt.Errorf("line %d: %w", line.Number, err)
	}
	for _, t := range r.doc.sources {
		r.registerScan(t)
	}
	return nil
}

func (r *fileReader) scanHeaderHandler(scanType, keyword string) driven.LineHandler {
	return func(line driven.Line) error {
		layer := r.doc.layers[scanType]
		switch keyword {
		case domain.KeywordDisplay:
			if len(line.Args) > 0 {
				layer.display = line.Args[0]
			}
		case domain.KeywordResolution:
			n, err := strconv.Atoi(first(line.Args))
			if err != nil {
				r.warn(line, "resolution")
				return nil
			}
			layer.resolution = max(n, 0)
		case domain.KeywordNumPoints:
			if n, err := strconv.Atoi(first(line.Args)); err == nil {
				layer.reservePoints(n)
			}
		case domain.KeywordNumLines:
			if n, err := strconv.Atoi(first(line.Args)); err == nil {
				layer.reserveLines(n)
			}
		}
		// Bounds and sort flags are recomputed from the data.
		return nil
	}
}

func (r *fileReader) dataHandler(scanType string, lines bool) driven.LineHandler {
	return func(line driven.Line) error {
		if !r.inData {
			r.inData = true
			for _, kw := range r.sectionKeywords {
				r.tok.RemoveHandler(kw)
			}
			r.sectionKeywords = nil
			for _, keywords := range r.scanKeywords {
				for _, kw := range keywords {
					if !isDataKeyword(kw) {
						r.tok.RemoveHandler(kw)
					}
				}
			}
		}
		r.dataLayer = r.doc.layers[scanType]
		r.dataLines = lines
		return nil
	}
}

func (r *fileReader) handleOther(line driven.Line) error {
	if len(line.Args) == 0 && isDataKeyword(line.Keyword) {
		return fmt.Errorf("line %d %q: %w", line.Number, line.Keyword, domain.ErrUnknownScanType)
	}
	if !r.inData {
		r.doc.remainder = append(r.doc.remainder, line.Text)
		return nil
	}

	tokens := append([]string{line.Keyword}, line.Args...)
	if r.dataLines {
		seg, ok := domain.ParseSegment(tokens)
		if !ok {
			r.warn(line, "line segment")
			return nil
		}
		r.dataLayer.LoadLine(seg)
		return nil
	}
	p, ok := domain.ParsePoint(tokens)
	if !ok {
		r.warn(line, "point")
		return nil
	}
	r.dataLayer.LoadPoint(p)
	return nil
}

func (r *fileReader) handleOrigin(line driven.Line) error {
	o, ok := domain.ParseOrigin(line.Args)
	if !ok {
		r.warn(line, "origin")
		return nil
	}
	r.doc.supplement.origin = o
	r.doc.supplement.lastModified = touch()
	return nil
}

func (r *fileReader) infoHandler(name string) driven.LineHandler {
	return func(line driven.Line) error {
		r.doc.info.Load(name, line.Args)
		return nil
	}
}

func (r *fileReader) objectHandler(reg *ObjectRegistry) driven.LineHandler {
	return func(line driven.Line) error {
		obj, ok := domain.ParseMapObject(line.Args)
		if !ok {
			r.warn(line, "object")
			return nil
		}
		reg.Load(obj)
		return nil
	}
}

// isDataKeyword reports whether kw introduces a data section of any source.
func isDataKeyword(kw string) bool {
	for _, data := range []string{domain.KeywordPointData, domain.KeywordLineData} {
		if strings.EqualFold(kw, data) {
			return true
		}
		if n := len(kw) - len(data) - 1; n > 0 && kw[n] == '_' && strings.EqualFold(kw[n+1:], data) {
			return true
		}
	}
	return false
}

func first(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
