package net

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/ffnet/internal/activations"
	"github.com/FlavioCFOliveira/ffnet/internal/layer"
)

// FileExt is the extension Save appends to the model name.
const FileExt = ".bin"

// LayerRecord is the persisted form of a dense layer.
type LayerRecord struct {
	Transfer string
	// Weights holds the weight matrix in gonum's binary format.
	Weights []byte
	HasBias bool
	Biases  []float64
}

func recordOf(l *layer.Dense) (LayerRecord, error) {
	weights, err := l.Weights().MarshalBinary()
	if err != nil {
		return LayerRecord{}, err
	}
	return LayerRecord{
		Transfer: l.Transfer().String(),
		Weights:  weights,
		HasBias:  l.HasBias(),
		Biases:   l.Biases(),
	}, nil
}

// CreateLayer rebuilds the layer described by the record.
func (r LayerRecord) CreateLayer() (*layer.Dense, error) {
	tf, err := activations.Parse(r.Transfer)
	if err != nil {
		return nil, err
	}
	var weights mat.Dense
	if err := weights.UnmarshalBinary(r.Weights); err != nil {
		return nil, fmt.Errorf("failed to decode weights: %w", err)
	}
	var biases []float64
	if r.HasBias {
		if len(r.Biases) == 0 {
			return nil, fmt.Errorf("layer record has a bias flag but no biases")
		}
		biases = r.Biases
	}
	return layer.NewDenseFromMatrix(&weights, biases, tf)
}

// Path returns the file Save writes for dir and name.
func Path(dir, name string) string {
	return filepath.Join(dir, name+FileExt)
}

// Save writes the network to <dir>/<name>.bin using gob encoding.
// The directory must exist; an existing file is replaced.
func (n *Network) Save(dir, name string) error {
	file, err := os.Create(Path(dir, name))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := n.Encode(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Load reads a network written by Save. The sampler is not persisted; opts
// may supply one.
func Load(dir, name string, opts ...Option) (*Network, error) {
	file, err := os.Open(Path(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Decode(file, opts...)
}

// Encode writes the network to an io.Writer using gob encoding.
func (n *Network) Encode(w io.Writer) error {
	encoder := gob.NewEncoder(w)

	if err := encoder.Encode(int32(len(n.layers))); err != nil {
		return fmt.Errorf("failed to encode layer count: %w", err)
	}

	for i, l := range n.layers {
		rec, err := recordOf(l)
		if err != nil {
			return fmt.Errorf("failed to encode layer %d: %w", i, err)
		}
		if err := encoder.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode layer %d: %w", i, err)
		}
	}

	return nil
}

// Decode reads a network written by Encode.
func Decode(r io.Reader, opts ...Option) (*Network, error) {
	decoder := gob.NewDecoder(r)

	var numLayers int32
	if err := decoder.Decode(&numLayers); err != nil {
		return nil, fmt.Errorf("failed to read layer count: %w", err)
	}
	if numLayers <= 0 {
		return nil, fmt.Errorf("invalid layer count %d", numLayers)
	}

	// The count is untrusted; grow the slice only as records arrive.
	var layers []*layer.Dense
	for i := 0; i < int(numLayers); i++ {
		var rec LayerRecord
		if err := decoder.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to read layer %d: %w", i, err)
		}
		l, err := rec.CreateLayer()
		if err != nil {
			return nil, fmt.Errorf("failed to create layer %d: %w", i, err)
		}
		layers = append(layers, l)
	}

	return FromLayers(layers, opts...)
}
