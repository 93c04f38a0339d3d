//go:build !gocv
// +build !gocv

package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateEngine_GoCVUnavailable(t *testing.T) {
	engine, err := NewEngineFactory(testConfig(), nil).CreateEngine(GoCVEngine)
	assert.Error(t, err)
	assert.Nil(t, engine)
}
