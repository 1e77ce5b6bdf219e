package vecstore

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// indexMagic identifies the native index file format.
const indexMagic uint32 = 0x58494156 // "VAIX"

// mappingFile is the on-disk shape of the ID maps and metadata. JSON object
// keys must be strings, so internal IDs are serialized as decimal strings.
type mappingFile struct {
	IDToInternal map[string]int            `json:"id_to_internal_id"`
	InternalToID map[string]string         `json:"internal_id_to_id"`
	Metadata     map[string]map[string]any `json:"metadata_store"`
}

// persistLocked serializes vectors, mappings, and the index to disk. The
// caller must hold the write lock. Any failure is surfaced: the in-memory
// mutation has already happened and the next startup self-heals from the
// vector file.
func (s *Store) persistLocked() error {
	if err := s.writeVectors(); err != nil {
		return fmt.Errorf("write vectors: %w", err)
	}
	if err := s.writeMapping(); err != nil {
		return fmt.Errorf("write mapping: %w", err)
	}
	if err := s.writeIndex(); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// writeVectors stores the full vector array as raw little-endian float32s.
// Slot order is internal-ID order, so the file length divided by the record
// size is the slot count.
func (s *Store) writeVectors() error {
	buf := make([]byte, 0, len(s.vectors)*s.dim*4)
	var scratch [4]byte
	for _, vec := range s.vectors {
		for _, v := range vec {
			binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(v))
			buf = append(buf, scratch[:]...)
		}
	}
	return os.WriteFile(s.vectorsPath(), buf, 0644)
}

func (s *Store) writeMapping() error {
	mf := mappingFile{
		IDToInternal: s.idToInternal,
		InternalToID: make(map[string]string, len(s.internalToID)),
		Metadata:     make(map[string]map[string]any, len(s.metadata)),
	}
	for internal, id := range s.internalToID {
		mf.InternalToID[strconv.Itoa(internal)] = id
	}
	for internal, meta := range s.metadata {
		mf.Metadata[strconv.Itoa(internal)] = meta
	}

	data, err := json.Marshal(mf)
	if err != nil {
		return err
	}
	return os.WriteFile(s.mappingPath(), data, 0644)
}

// writeIndex stores the index snapshot with a small header so that the item
// count can be cross-checked against the vector file on startup.
func (s *Store) writeIndex() error {
	var buf bytes.Buffer
	header := make([]byte, 16)
	binary.LittleEndian.PutUint32(header[0:4], indexMagic)
	binary.LittleEndian.PutUint32(header[4:8], uint32(s.dim))
	binary.LittleEndian.PutUint64(header[8:16], uint64(s.index.Len()))
	buf.Write(header)

	var scratch [4]byte
	for _, vec := range s.index.vectors {
		for _, v := range vec {
			binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(v))
			buf.Write(scratch[:])
		}
	}
	return os.WriteFile(s.indexPath(), buf.Bytes(), 0644)
}

// load restores the persisted state. The vector file is the source of truth:
// mapping entries pointing past its end are dropped, and an index file whose
// item count disagrees is discarded and rebuilt.
func (s *Store) load() error {
	if err := s.loadVectors(); err != nil {
		return fmt.Errorf("load vectors: %w", err)
	}
	if err := s.loadMapping(); err != nil {
		return fmt.Errorf("load mapping: %w", err)
	}

	indexCount, indexErr := s.readIndexCount()
	if indexErr != nil || indexCount != len(s.vectors) {
		if indexErr != nil {
			s.logger.Warn("index file unusable, rebuilding from vectors", "error", indexErr)
		} else if indexCount != len(s.vectors) {
			s.logger.Warn("index count diverged from vector file, rebuilding",
				"index_count", indexCount, "vector_count", len(s.vectors))
		}
		s.index.Rebuild(s.vectors)
		if err := s.writeIndex(); err != nil {
			return fmt.Errorf("rewrite index: %w", err)
		}
		return nil
	}

	// Counts agree; the index is derivable from the vectors either way, so
	// rebuild in memory rather than parsing the snapshot body.
	s.index.Rebuild(s.vectors)
	return nil
}

func (s *Store) loadVectors() error {
	data, err := os.ReadFile(s.vectorsPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	recordSize := s.dim * 4
	if recordSize == 0 || len(data)%recordSize != 0 {
		return fmt.Errorf("vector file size %d is not a multiple of record size %d", len(data), recordSize)
	}

	count := len(data) / recordSize
	s.vectors = make([][]float32, count)
	for i := 0; i < count; i++ {
		vec := make([]float32, s.dim)
		base := i * recordSize
		for j := 0; j < s.dim; j++ {
			bits := binary.LittleEndian.Uint32(data[base+j*4 : base+j*4+4])
			vec[j] = math.Float32frombits(bits)
		}
		s.vectors[i] = vec
	}
	return nil
}

func (s *Store) loadMapping() error {
	data, err := os.ReadFile(s.mappingPath())
	if os.IsNotExist(err) {
		if len(s.vectors) > 0 {
			return fmt.Errorf("vector file present but mapping file missing")
		}
		return nil
	}
	if err != nil {
		return err
	}

	var mf mappingFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return err
	}

	for id, internal := range mf.IDToInternal {
		if internal < 0 || internal >= len(s.vectors) {
			s.logger.Warn("dropping mapping past end of vector file", "id", id, "internal_id", internal)
			continue
		}
		s.idToInternal[id] = internal
		s.internalToID[internal] = id
	}
	for key, meta := range mf.Metadata {
		internal, err := strconv.Atoi(key)
		if err != nil || internal < 0 || internal >= len(s.vectors) {
			continue
		}
		if _, live := s.internalToID[internal]; live {
			s.metadata[internal] = meta
		}
	}
	return nil
}

// readIndexCount parses only the index file header. A missing file reports
// count zero with no error, matching an empty store.
func (s *Store) readIndexCount() (int, error) {
	f, err := os.Open(s.indexPath())
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = f.Close()
	}()

	header := make([]byte, 16)
	if _, err := io.ReadFull(f, header); err != nil {
		return 0, fmt.Errorf("read index header: %w", err)
	}
	if binary.LittleEndian.Uint32(header[0:4]) != indexMagic {
		return 0, fmt.Errorf("bad index magic")
	}
	if dim := int(binary.LittleEndian.Uint32(header[4:8])); dim != s.dim {
		return 0, fmt.Errorf("index dimension %d does not match configured %d", dim, s.dim)
	}
	return int(binary.LittleEndian.Uint64(header[8:16])), nil
}
