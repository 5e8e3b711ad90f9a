package textclean

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kamazuxa/tender/pkg/logger"
)

func TestNoiseFilterDropsBoilerplate(t *testing.T) {
	f := NewNoiseFilter(logger.NewTestLogger())

	input := strings.Join([]string{
		"Поставка медицинских перчаток в количестве 500 упаковок",
		"Настоящий контракт вступает в силу с момента подписания",
		"Порядок подачи заявок определяется извещением",
		"Размер перчаток M и L, материал нитрил",
	}, "\n")

	got, removed := f.Filter(input)

	assert.Equal(t, 2, removed)
	assert.Contains(t, got, "Поставка медицинских перчаток")
	assert.Contains(t, got, "Размер перчаток")
	assert.NotContains(t, got, "Настоящий контракт")
	assert.NotContains(t, got, "Порядок подачи")
}

func TestNoiseFilterDropsContentFreeShapes(t *testing.T) {
	f := NewNoiseFilter(logger.NewTestLogger())

	tests := []struct {
		name string
		line string
	}{
		{"document number marker", "№ 12345"},
		{"bare list number", "3."},
		{"bare cyrillic list marker", "а."},
		{"lone dash", "-"},
		{"lone period", "."},
		{"lone comma", ","},
		{"lone semicolon", ";"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, removed := f.Filter(tt.line)
			assert.Empty(t, got)
			assert.Equal(t, 1, removed)
		})
	}
}

func TestNoiseFilterShortLineRule(t *testing.T) {
	f := NewNoiseFilter(logger.NewTestLogger())

	// Short without a digit: residual noise.
	got, removed := f.Filter("обрывок")
	assert.Empty(t, got)
	assert.Equal(t, 1, removed)

	// Short with a digit: a code worth keeping.
	got, removed = f.Filter("А4 140г")
	assert.Equal(t, "А4 140г", got)
	assert.Equal(t, 0, removed)
}

func TestNoiseFilterIdempotent(t *testing.T) {
	f := NewNoiseFilter(logger.NewTestLogger())

	input := strings.Join([]string{
		"Поставка бумаги офисной в количестве 100 пачек",
		"Настоящий договор действует до конца года",
		"Плотность 80 г/м2, белизна 146%",
	}, "\n")

	once, _ := f.Filter(input)
	twice, removed := f.Filter(once)
	assert.Equal(t, once, twice)
	assert.Equal(t, 0, removed)
}
