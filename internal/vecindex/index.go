package vecindex

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"
)

// Errors returned by index loading and search.
var (
	// ErrIndexNotFound means the artifact files are missing; build the
	// index before starting the service.
	ErrIndexNotFound = errors.New("vector index not found")

	// ErrCorruptIndex means the binary vector file failed validation
	// (bad magic, truncated payload, unsupported version).
	ErrCorruptIndex = errors.New("corrupt vector index")

	// ErrMetadataMismatch means the vector count and the metadata entry
	// count disagree; the pair is unusable as a unit.
	ErrMetadataMismatch = errors.New("vector index and metadata entry counts disagree")

	// ErrDimensionMismatch means a query vector's dimensions differ from
	// the index's. This indicates a configuration error, not a bad query.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

const (
	// CurrentIndexVersion is the artifact format version. Increment on
	// breaking changes to the binary layout or metadata shape.
	CurrentIndexVersion = 1

	// headerSize is magic(8) + version(4) + dim(4) + count(4).
	headerSize = 20

	// MinDescriptionLength is the minimum description length (in
	// characters) to index. Shorter texts lack the semantic content for
	// a reliable embedding.
	MinDescriptionLength = 50
)

// indexMagic identifies a prospectus vector file.
var indexMagic = [8]byte{'P', 'R', 'S', 'P', 'I', 'D', 'X', '1'}

// Load reads the vector file and its metadata companion as one atomic
// unit. Any inconsistency between the two is fatal: the caller must not
// serve requests from a partially valid index.
func Load(indexPath, metaPath string) (*Index, error) {
	raw, err := os.ReadFile(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("reading vector file: %w", err)
	}

	vectors, dim, err := decodeVectors(raw)
	if err != nil {
		return nil, err
	}

	meta, err := loadMetadata(metaPath)
	if err != nil {
		return nil, err
	}

	if meta.Dimensions != dim {
		return nil, fmt.Errorf("%w: vector file dim %d, metadata dim %d", ErrCorruptIndex, dim, meta.Dimensions)
	}
	if len(meta.Courses) != len(vectors) {
		return nil, fmt.Errorf("%w: %d vectors, %d metadata entries", ErrMetadataMismatch, len(vectors), len(meta.Courses))
	}

	byID := make(map[string]int, len(meta.Courses))
	for i := range meta.Courses {
		rec := &meta.Courses[i]
		rec.NormalizeFreshness()
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("metadata entry %d: %w", i, err)
		}
		if prev, dup := byID[rec.ID]; dup {
			return nil, fmt.Errorf("duplicate course id %q at ordinals %d and %d", rec.ID, prev, i)
		}
		byID[rec.ID] = i
	}

	return &Index{
		modelName:  meta.ModelName,
		dimensions: dim,
		createdAt:  meta.CreatedAt,
		vectors:    vectors,
		records:    meta.Courses,
		byID:       byID,
	}, nil
}

// decodeVectors parses the binary vector file.
//
// Layout: 8-byte magic, uint32 version, uint32 dim, uint32 count, then
// count*dim little-endian float32 values.
func decodeVectors(raw []byte) ([][]float32, int, error) {
	if len(raw) < headerSize {
		return nil, 0, fmt.Errorf("%w: file too small for header (%d bytes)", ErrCorruptIndex, len(raw))
	}

	var magic [8]byte
	copy(magic[:], raw[:8])
	if magic != indexMagic {
		return nil, 0, fmt.Errorf("%w: magic mismatch", ErrCorruptIndex)
	}

	version := binary.LittleEndian.Uint32(raw[8:12])
	if version != CurrentIndexVersion {
		return nil, 0, fmt.Errorf("%w: unsupported version %d (want %d)", ErrCorruptIndex, version, CurrentIndexVersion)
	}

	dim := int(binary.LittleEndian.Uint32(raw[12:16]))
	count := int(binary.LittleEndian.Uint32(raw[16:20]))
	if dim <= 0 {
		return nil, 0, fmt.Errorf("%w: dimension is zero", ErrCorruptIndex)
	}

	want := headerSize + count*dim*4
	if len(raw) != want {
		return nil, 0, fmt.Errorf("%w: payload is %d bytes, want %d", ErrCorruptIndex, len(raw), want)
	}

	vectors := make([][]float32, count)
	offset := headerSize
	for i := 0; i < count; i++ {
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			bits := binary.LittleEndian.Uint32(raw[offset:])
			vec[j] = math.Float32frombits(bits)
			offset += 4
		}
		vectors[i] = vec
	}

	return vectors, dim, nil
}

func loadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("reading metadata file: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: parsing metadata: %v", ErrCorruptIndex, err)
	}

	if meta.Version != CurrentIndexVersion {
		return nil, fmt.Errorf("%w: metadata version %d (want %d)", ErrCorruptIndex, meta.Version, CurrentIndexVersion)
	}

	return &meta, nil
}

// Write persists the vector file and metadata file as a pair. Both are
// written to temp files first and renamed, so a crash mid-write never
// leaves a truncated artifact behind.
func Write(indexPath, metaPath string, meta Metadata, vectors [][]float32) error {
	if len(meta.Courses) != len(vectors) {
		return fmt.Errorf("%w: %d vectors, %d metadata entries", ErrMetadataMismatch, len(vectors), len(meta.Courses))
	}
	for i, vec := range vectors {
		if len(vec) != meta.Dimensions {
			return fmt.Errorf("%w: vector %d has %d dimensions, want %d", ErrDimensionMismatch, i, len(vec), meta.Dimensions)
		}
	}

	meta.Version = CurrentIndexVersion
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}

	if err := writeAtomic(indexPath, encodeVectors(meta.Dimensions, vectors)); err != nil {
		return fmt.Errorf("writing vector file: %w", err)
	}

	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := writeAtomic(metaPath, metaBytes); err != nil {
		return fmt.Errorf("writing metadata file: %w", err)
	}

	return nil
}

func encodeVectors(dim int, vectors [][]float32) []byte {
	buf := make([]byte, headerSize+len(vectors)*dim*4)
	copy(buf[:8], indexMagic[:])
	binary.LittleEndian.PutUint32(buf[8:12], CurrentIndexVersion)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(dim))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(len(vectors)))

	offset := headerSize
	for _, vec := range vectors {
		for _, v := range vec {
			binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
			offset += 4
		}
	}
	return buf
}

func writeAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return err
	}
	return nil
}

// IndexSize returns the size of the vector file in bytes.
func IndexSize(indexPath string) (int64, error) {
	info, err := os.Stat(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrIndexNotFound
		}
		return 0, err
	}
	return info.Size(), nil
}

// Exists checks if both artifact files exist.
func Exists(indexPath, metaPath string) bool {
	if _, err := os.Stat(indexPath); err != nil {
		return false
	}
	_, err := os.Stat(metaPath)
	return err == nil
}
