package featurebank

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/fewshot/blobstore"
	"github.com/hupe1980/fewshot/codec"
)

// Snapshot file layout (little endian):
//
//	magic        [4]byte  "FSBK"
//	version      uint8
//	compression  uint8
//	codecNameLen uint8
//	codecName    []byte
//	body         block: [uncompressedSize uint32][compressedSize uint32][data]
//
// compressedSize == 0 marks an uncompressed block.
var snapshotMagic = [4]byte{'F', 'S', 'B', 'K'}

const (
	snapshotVersion = 1
	blockHeaderSize = 8
)

// Compression selects the snapshot body compression.
type Compression uint8

const (
	// CompressionNone stores the body uncompressed.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression (better ratio, default).
	CompressionZSTD Compression = 2
)

// ErrBadSnapshot indicates a snapshot blob that cannot be decoded.
type ErrBadSnapshot struct {
	Name   string
	Reason string
}

func (e *ErrBadSnapshot) Error() string {
	return fmt.Sprintf("bad snapshot %q: %s", e.Name, e.Reason)
}

// SnapshotOptions configures Save.
type SnapshotOptions struct {
	// Codec encodes the snapshot body. Defaults to codec.Default.
	Codec codec.Codec
	// Compression selects the body compression. Defaults to CompressionZSTD.
	Compression Compression
}

type snapshotBody[L comparable] struct {
	Dim     int       `json:"dim"`
	Labels  []L       `json:"labels"`
	Vectors []float32 `json:"vectors"`
}

// Save writes the bank as a snapshot blob.
func (b *Bank[L]) Save(ctx context.Context, store blobstore.BlobStore, name string, optFns ...func(o *SnapshotOptions)) error {
	opts := SnapshotOptions{
		Codec:       codec.Default,
		Compression: CompressionZSTD,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	body, err := opts.Codec.Marshal(snapshotBody[L]{
		Dim:     b.dim,
		Labels:  b.labels,
		Vectors: b.vectors,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot body: %w", err)
	}

	block, err := compressBlock(body, opts.Compression)
	if err != nil {
		return fmt.Errorf("compress snapshot body: %w", err)
	}

	codecName := opts.Codec.Name()
	if len(codecName) > 255 {
		return fmt.Errorf("codec name too long: %q", codecName)
	}

	buf := make([]byte, 0, 7+len(codecName)+len(block))
	buf = append(buf, snapshotMagic[:]...)
	buf = append(buf, snapshotVersion, byte(opts.Compression), byte(len(codecName)))
	buf = append(buf, codecName...)
	buf = append(buf, block...)

	return store.Put(ctx, name, buf)
}

// Load reads a snapshot blob back into a bank.
// The label type parameter must match the one used at save time.
func Load[L comparable](ctx context.Context, store blobstore.BlobStore, name string) (*Bank[L], error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(blob)
	if err != nil {
		return nil, err
	}

	if len(data) < 7 {
		return nil, &ErrBadSnapshot{Name: name, Reason: "truncated header"}
	}
	if [4]byte(data[:4]) != snapshotMagic {
		return nil, &ErrBadSnapshot{Name: name, Reason: "bad magic"}
	}
	if data[4] != snapshotVersion {
		return nil, &ErrBadSnapshot{Name: name, Reason: fmt.Sprintf("unsupported version %d", data[4])}
	}
	compression := Compression(data[5])
	nameLen := int(data[6])
	if len(data) < 7+nameLen {
		return nil, &ErrBadSnapshot{Name: name, Reason: "truncated codec name"}
	}
	codecName := string(data[7 : 7+nameLen])

	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, &ErrBadSnapshot{Name: name, Reason: fmt.Sprintf("unknown codec %q", codecName)}
	}

	body, err := decompressBlock(data[7+nameLen:], compression)
	if err != nil {
		return nil, &ErrBadSnapshot{Name: name, Reason: err.Error()}
	}

	var sb snapshotBody[L]
	if err := c.Unmarshal(body, &sb); err != nil {
		return nil, &ErrBadSnapshot{Name: name, Reason: fmt.Sprintf("decode body: %v", err)}
	}

	if sb.Dim <= 0 || len(sb.Vectors) != len(sb.Labels)*sb.Dim {
		return nil, &ErrBadSnapshot{Name: name, Reason: "inconsistent body shape"}
	}
	if len(sb.Labels) == 0 {
		return nil, ErrEmpty
	}

	return &Bank[L]{
		dim:     sb.Dim,
		labels:  sb.Labels,
		vectors: sb.Vectors,
	}, nil
}

// ZSTD encoder/decoder pools: snapshots may be saved/loaded concurrently by
// batch jobs, and zstd contexts are expensive to build.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func compressBlock(data []byte, compression Compression) ([]byte, error) {
	var compressed []byte

	switch compression {
	case CompressionNone:
		// Stored as-is below.
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, err
		}
		compressed = dst[:n] // n == 0 means incompressible
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("unsupported compression type: %d", compression)
	}

	// Store uncompressed when compression does not pay off.
	if len(compressed) == 0 || len(compressed) >= len(data) {
		block := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(block[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(block[4:], 0)
		copy(block[blockHeaderSize:], data)
		return block, nil
	}

	block := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(block[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(block[4:], uint32(len(compressed)))
	copy(block[blockHeaderSize:], compressed)
	return block, nil
}

func decompressBlock(block []byte, compression Compression) ([]byte, error) {
	if len(block) < blockHeaderSize {
		return nil, fmt.Errorf("block too small for header")
	}

	uncompressedSize := binary.LittleEndian.Uint32(block[0:])
	compressedSize := binary.LittleEndian.Uint32(block[4:])

	if compressedSize == 0 {
		if uint32(len(block)) < blockHeaderSize+uncompressedSize {
			return nil, fmt.Errorf("block data too small")
		}
		return block[blockHeaderSize : blockHeaderSize+uncompressedSize], nil
	}

	if uint32(len(block)) < blockHeaderSize+compressedSize {
		return nil, fmt.Errorf("compressed block data too small")
	}
	compressed := block[blockHeaderSize : blockHeaderSize+compressedSize]

	switch compression {
	case CompressionLZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(compressed, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedSize {
			return nil, fmt.Errorf("decompressed size mismatch")
		}
		return out, nil

	case CompressionZSTD:
		dec := getZstdDecoder()
		out, err := dec.DecodeAll(compressed, make([]byte, 0, uncompressedSize))
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, err
		}
		if uint32(len(out)) != uncompressedSize {
			return nil, fmt.Errorf("decompressed size mismatch")
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported compression type: %d", compression)
	}
}
