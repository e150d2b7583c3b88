package mapdoc

import (
	"bufio"
	"crypto/md5"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/logger"
)

// Write serialises the document to path and updates the fingerprint.
//
// Pre-write callbacks run first. Post-write callbacks always run and see
// the outcome. With useTempFile the bytes go to a temporary file in the
// same directory which is then renamed over path, so a failed write leaves
// the original file untouched.
func (d *Document) Write(path string, useTempFile bool) (err error) {
	if path == "" {
		if d.settings.AllowEmptyFileName {
			return nil
		}
		return fmt.Errorf("write map: empty file name: %w", domain.ErrInvalidInput)
	}

	for _, h := range d.hooks {
		if h.pre != nil {
			h.pre(path)
		}
	}
	result := domain.WriteResult{Path: path}
	defer func() {
		result.Err = err
		for _, h := range d.hooks {
			if h.post != nil {
				h.post(result)
			}
		}
	}()

	d.InferCategory()
	sum := md5.New()
	if useTempFile {
		err = d.writeAtomic(path, sum)
	} else {
		err = d.writeDirect(path, sum)
	}
	if err != nil {
		return fmt.Errorf("failed to write map %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat written map %s: %w", path, err)
	}
	fp := domain.Fingerprint{
		OriginName: d.settings.OriginName,
		FileName:   path,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
	}
	copy(fp.Checksum[:], sum.Sum(nil))
	d.fingerprint = fp
	result.Fingerprint = fp

	logger.Debug("wrote %s: %d bytes, checksum %s", path, fp.Size, fp.ChecksumString())
	return nil
}

func (d *Document) writeDirect(path string, sum hash.Hash) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := d.Encode(io.MultiWriter(f, sum)); err != nil {
		f.Close()
		return fmt.Errorf("writing content: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	return nil
}

func (d *Document) writeAtomic(path string, sum hash.Hash) error {
	dir := filepath.Dir(path)

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	// Same directory keeps the rename on one filesystem.
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := d.Encode(io.MultiWriter(tmp, sum)); err != nil {
		tmp.Close()
		return fmt.Errorf("writing content: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing to disk: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}

// Encode writes the document in file order to w.
func (d *Document) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	line := func(s string) {
		bw.WriteString(s)
		bw.WriteByte('\n')
	}

	line(domain.MaxCategory(d.category, d.inferredCategory()).String())
	if !d.HasDefaultSources() {
		line(domain.KeywordSources + " " + domain.JoinTokens(d.sources))
	}

	layers := make([]*ScanLayer, len(d.sources))
	for i, t := range d.sources {
		layers[i] = d.layers[t]
		for _, h := range layers[i].HeaderLines() {
			line(h)
		}
	}

	for _, l := range d.supplement.Lines() {
		line(l)
	}
	for _, l := range d.info.Lines() {
		line(l)
	}
	for _, reg := range []*ObjectRegistry{d.objects, d.inactive, d.children} {
		for _, l := range reg.Lines() {
			line(l)
		}
	}
	for _, l := range d.remainder {
		line(l)
	}

	for _, layer := range layers {
		if layer.NumLines() == 0 {
			continue
		}
		line(domain.ScanKeyword(layer.scanType, domain.KeywordLineData))
		for _, seg := range layer.Lines() {
			line(domain.FormatSegment(seg))
		}
	}
	for _, layer := range layers {
		if layer.NumPoints() == 0 {
			continue
		}
		line(domain.ScanKeyword(layer.scanType, domain.KeywordPointData))
		for _, p := range layer.Points() {
			line(domain.FormatPoint(p))
		}
	}

	return bw.Flush()
}

// CalculateChecksum returns the MD5 of the bytes Write would produce.
func (d *Document) CalculateChecksum() [16]byte {
	sum := md5.New()
	// Writes to a hash never fail.
	_ = d.Encode(sum)
	var out [16]byte
	copy(out[:], sum.Sum(nil))
	return out
}
