package projection

import (
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"go.trai.ch/zerr"
)

// ReplayLayer applies the changes to the layer in order.
// A later delete removes earlier adds and updates, and a later add after a delete resurrects the element.
func ReplayLayer(layer *domain.Layer, changes []domain.Change) error {
	for i := range changes {
		if err := changes[i].ApplyTo(layer); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to replay change"), "sequence", changes[i].SequenceNumber)
		}
	}
	return nil
}

// ApplyChanges applies the changes to the model in order and returns how many were applied.
// On failure, changes[applied] is the change that could not be applied.
func ApplyChanges(m *domain.Model, changes []domain.Change) (int, error) {
	for i := range changes {
		c := &changes[i]
		if err := c.Validate(); err != nil {
			return i, err
		}
		layer, err := m.Layer(c.LayerName)
		if err != nil {
			return i, err
		}
		if err := c.ApplyTo(layer); err != nil {
			return i, zerr.With(zerr.Wrap(err, "failed to apply change"), "sequence", c.SequenceNumber)
		}
	}
	return len(changes), nil
}
