// Package snapshot writes and restores compressed copies of a database
// file. A snapshot is the file's bytes in an xz stream; its blake3 digest
// is kept next to it in a ".blake3" sidecar.
package snapshot

import (
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"mash-db/internal/common"
)

// DigestSuffix is appended to a snapshot path to name its digest sidecar
const DigestSuffix = ".blake3"

var (
	ErrDigestMismatch = errors.New("snapshot digest mismatch")
	ErrNotPageAligned = errors.New("snapshot is not a whole number of pages")
	ErrExists         = errors.New("destination already exists")
)

// Digest is the blake3 hash of an uncompressed database file
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest decodes a hex digest
func ParseDigest(s string) (Digest, error) {
	var d Digest
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return d, errors.Wrap(err, "invalid digest")
	}
	if len(raw) != len(d) {
		return d, errors.Errorf("invalid digest length %d", len(raw))
	}
	copy(d[:], raw)
	return d, nil
}

// Write compresses src into dst and returns the digest and length of the
// uncompressed bytes
func Write(dst io.Writer, src io.Reader) (Digest, int64, error) {
	var d Digest

	xw, err := xz.NewWriter(dst)
	if err != nil {
		return d, 0, errors.Wrap(err, "failed to create xz writer")
	}
	h := blake3.New()

	n, err := io.Copy(io.MultiWriter(xw, h), src)
	if err != nil {
		xw.Close()
		return d, n, errors.Wrap(err, "failed to compress snapshot")
	}
	if err := xw.Close(); err != nil {
		return d, n, errors.Wrap(err, "failed to finish xz stream")
	}

	copy(d[:], h.Sum(nil))
	return d, n, nil
}

// Read decompresses src into dst and returns the digest and length of the
// uncompressed bytes
func Read(dst io.Writer, src io.Reader) (Digest, int64, error) {
	var d Digest

	xr, err := xz.NewReader(src)
	if err != nil {
		return d, 0, errors.Wrap(err, "failed to open xz stream")
	}
	h := blake3.New()

	n, err := io.Copy(io.MultiWriter(dst, h), xr)
	if err != nil {
		return d, n, errors.Wrap(err, "failed to decompress snapshot")
	}

	copy(d[:], h.Sum(nil))
	return d, n, nil
}

// Backup writes a snapshot of the database file at dbPath to outPath and
// its digest to outPath+DigestSuffix. The database must not be open in a
// running session: pages still in memory are not part of the file.
func Backup(dbPath, outPath string) (Digest, error) {
	src, err := os.Open(dbPath)
	if err != nil {
		return Digest{}, errors.Wrap(err, "failed to open database")
	}
	defer src.Close()

	dst, err := os.Create(outPath)
	if err != nil {
		return Digest{}, errors.Wrap(err, "failed to create snapshot")
	}

	d, n, err := Write(dst, src)
	if err != nil {
		dst.Close()
		return d, err
	}
	if n%common.PageSize != 0 {
		dst.Close()
		os.Remove(outPath)
		return d, errors.Wrapf(ErrNotPageAligned, "%s has length %d", dbPath, n)
	}
	if err := dst.Close(); err != nil {
		return d, errors.Wrap(err, "failed to close snapshot")
	}

	if err := os.WriteFile(outPath+DigestSuffix, []byte(d.String()+"\n"), 0644); err != nil {
		return d, errors.Wrap(err, "failed to write digest")
	}
	return d, nil
}

// Restore decompresses the snapshot at backupPath into dbPath. When a
// digest sidecar exists the restored bytes must match it. An existing
// dbPath is only replaced when overwrite is set.
func Restore(backupPath, dbPath string, overwrite bool) (Digest, error) {
	if !overwrite {
		if _, err := os.Stat(dbPath); err == nil {
			return Digest{}, errors.Wrapf(ErrExists, "%s", dbPath)
		}
	}

	var want *Digest
	if raw, err := os.ReadFile(backupPath + DigestSuffix); err == nil {
		d, err := ParseDigest(string(raw))
		if err != nil {
			return Digest{}, err
		}
		want = &d
	} else if !os.IsNotExist(err) {
		return Digest{}, errors.Wrap(err, "failed to read digest")
	}

	src, err := os.Open(backupPath)
	if err != nil {
		return Digest{}, errors.Wrap(err, "failed to open snapshot")
	}
	defer src.Close()

	tmpPath := dbPath + ".restore"
	dst, err := os.Create(tmpPath)
	if err != nil {
		return Digest{}, errors.Wrap(err, "failed to create database")
	}
	defer os.Remove(tmpPath)

	got, n, err := Read(dst, src)
	if closeErr := dst.Close(); err == nil && closeErr != nil {
		err = errors.Wrap(closeErr, "failed to close database")
	}
	if err != nil {
		return got, err
	}
	if n%common.PageSize != 0 {
		return got, errors.Wrapf(ErrNotPageAligned, "restored length %d", n)
	}
	if want != nil && *want != got {
		return got, errors.Wrapf(ErrDigestMismatch, "want %s, got %s", want, got)
	}

	if err := os.Rename(tmpPath, dbPath); err != nil {
		return got, errors.Wrap(err, "failed to move restored database into place")
	}
	return got, nil
}
