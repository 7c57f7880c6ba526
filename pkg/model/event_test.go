package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cxo-ops/interrupt/pkg/errclass"
	"github.com/cxo-ops/interrupt/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() *model.Event {
	tstart := time.Date(2024, 6, 18, 3, 0, 0, 0, time.UTC)
	return &model.Event{
		Name:       "20240618",
		TStart:     tstart,
		TStop:      tstart.Add(7 * time.Hour),
		TLostKS:    25.2,
		Mode:       model.ModeAuto,
		Sources:    []model.SourceTag{model.TagDat, model.TagGOES},
		Hardness:   410.0,
		RecordedAt: tstart.Add(8 * time.Hour),
	}
}

func TestParseMode(t *testing.T) {
	mode, err := model.ParseMode("auto")
	require.NoError(t, err)
	assert.Equal(t, model.ModeAuto, mode)

	mode, err = model.ParseMode("manual")
	require.NoError(t, err)
	assert.Equal(t, model.ModeManual, mode)

	_, err = model.ParseMode("automatic")
	assert.True(t, errors.Is(err, errclass.ErrModeInvalid))
}

func TestEvent_Validate(t *testing.T) {
	assert.NoError(t, validEvent().Validate())

	ev := validEvent()
	ev.Name = "2024-6-18"
	assert.True(t, errors.Is(ev.Validate(), errclass.ErrNameInvalid))

	ev = validEvent()
	ev.TStop = ev.TStart
	assert.True(t, errors.Is(ev.Validate(), errclass.ErrInvalidWindow))

	ev = validEvent()
	ev.TLostKS = -1
	assert.True(t, errors.Is(ev.Validate(), errclass.ErrInvalidWindow))

	ev = validEvent()
	ev.Mode = "semi"
	assert.True(t, errors.Is(ev.Validate(), errclass.ErrModeInvalid))

	ev = validEvent()
	ev.Sources = nil
	assert.Error(t, ev.Validate())
}

func TestEvent_Year(t *testing.T) {
	assert.Equal(t, 2024, validEvent().Year())
	assert.Zero(t, (&model.Event{Name: "x"}).Year())
}

func TestEvent_HasSource(t *testing.T) {
	ev := validEvent()
	assert.True(t, ev.HasSource(model.TagGOES))
	assert.False(t, ev.HasSource(model.TagXMM))
}

func TestEvent_Duration(t *testing.T) {
	assert.Equal(t, 7*time.Hour, validEvent().Duration())
}
