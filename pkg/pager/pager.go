package pager

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"mash-db/internal/common"
)

var (
	ErrPageOutOfBounds = errors.New("page number out of bounds")
	ErrFileClosed      = errors.New("pager file is closed")
	ErrCorruptFile     = errors.New("db file is not a whole number of pages")
)

// Pager manages reading and writing fixed-size pages to/from disk.
//
// Pages are only written by FlushPage and Close. Everything mutated in
// between lives in memory and is lost if the process dies before Close.
type Pager struct {
	file       *os.File
	filePath   string
	fileLength int64
	numPages   uint32
	cache      *PageCache
	logger     *zap.Logger
	mu         sync.Mutex
	closed     bool
}

// Option configures a Pager
type Option func(*Pager)

// WithLogger sets the logger used by the pager
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pager) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Open creates a new Pager for the given file path
// If the file doesn't exist, it will be created
func Open(filePath string, opts ...Option) (*Pager, error) {
	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, "failed to stat file")
	}

	fileLength := stat.Size()
	if fileLength%common.PageSize != 0 {
		file.Close()
		return nil, errors.Wrapf(ErrCorruptFile, "%s has length %d", filePath, fileLength)
	}

	p := &Pager{
		file:       file,
		filePath:   filePath,
		fileLength: fileLength,
		numPages:   uint32(fileLength / common.PageSize),
		cache:      NewPageCache(common.MaxPages),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.logger.Info("pager opened",
		zap.String("path", filePath),
		zap.Int64("file_length", fileLength),
		zap.Uint32("pages", p.numPages),
	)
	return p, nil
}

// NumPages returns the number of pages in the file or touched since open,
// whichever is larger
func (p *Pager) NumPages() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.numPages
}

// FileLength returns the file length observed at open
func (p *Pager) FileLength() int64 {
	return p.fileLength
}

// GetPage returns the page with the given number, loading it from disk on
// first access. Pages past the end of the file start zero-filled.
func (p *Pager) GetPage(pageNum uint32) (*Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrFileClosed
	}

	if pageNum >= common.MaxPages {
		return nil, errors.Wrapf(ErrPageOutOfBounds, "tried to fetch page %d > %d", pageNum, common.MaxPages)
	}

	if page := p.cache.Get(pageNum); page != nil {
		return page, nil
	}

	page := NewPage()
	onDisk := uint32(p.fileLength / common.PageSize)

	// If page exists in file, read it
	if pageNum < onDisk {
		offset := int64(pageNum) * common.PageSize
		n, err := p.file.ReadAt(page.Data[:], offset)
		if err != nil && n != common.PageSize {
			return nil, errors.Wrapf(err, "failed to read page %d", pageNum)
		}
	}
	p.logger.Debug("page loaded", zap.Uint32("page", pageNum), zap.Bool("on_disk", pageNum < onDisk))

	p.cache.Put(pageNum, page)

	if pageNum >= p.numPages {
		p.numPages = pageNum + 1
	}

	return page, nil
}

// FlushPage writes a cached page to disk in full
func (p *Pager) FlushPage(pageNum uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrFileClosed
	}

	page := p.cache.Get(pageNum)
	if page == nil {
		return errors.Errorf("tried to flush unloaded page %d", pageNum)
	}

	return p.flushPageInternal(pageNum, page)
}

// flushPageInternal writes a page to disk (must hold lock)
func (p *Pager) flushPageInternal(pageNum uint32, page *Page) error {
	offset := int64(pageNum) * common.PageSize
	if _, err := p.file.WriteAt(page.Data[:], offset); err != nil {
		return errors.Wrapf(err, "failed to write page %d", pageNum)
	}
	if end := offset + common.PageSize; end > p.fileLength {
		p.fileLength = end
	}
	p.logger.Debug("page flushed", zap.Uint32("page", pageNum))
	return nil
}

// Close flushes every touched page and closes the file
func (p *Pager) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	var flushErr error
	p.cache.ForEach(func(pageNum uint32, page *Page) bool {
		flushErr = p.flushPageInternal(pageNum, page)
		return flushErr == nil
	})
	if flushErr != nil {
		return flushErr
	}

	if err := p.file.Sync(); err != nil {
		return errors.Wrap(err, "failed to sync file")
	}

	hits, misses := p.cache.Stats()
	p.logger.Info("pager closed",
		zap.String("path", p.filePath),
		zap.Uint32("pages", p.numPages),
		zap.Uint64("cache_hits", hits),
		zap.Uint64("cache_misses", misses),
	)

	p.cache.Clear()
	p.closed = true
	return errors.Wrap(p.file.Close(), "failed to close file")
}

// FilePath returns the path to the database file
func (p *Pager) FilePath() string {
	return p.filePath
}

// CacheStats returns cache hit/miss statistics
func (p *Pager) CacheStats() (hits, misses uint64, hitRate float64) {
	hits, misses = p.cache.Stats()
	hitRate = p.cache.HitRate()
	return
}

// CacheSize returns the current number of pages in cache
func (p *Pager) CacheSize() int {
	return p.cache.Size()
}
