package cerr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/momeni/flightagg/pkg/core/cerr"
	"github.com/momeni/flightagg/pkg/core/model"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	_, err := model.ParseIATACode("bcn")
	ce := cerr.BadRequest(err)
	assert.Equal(t, http.StatusBadRequest, ce.HTTPStatusCode)
	assert.ErrorIs(t, ce, model.ErrInvalidInput)
	assert.Equal(t, "[400] IATA CODE must match ^[A-Z0-9]{3}$", ce.Error())

	var target *cerr.Error
	assert.True(t, errors.As(fmt.Errorf("searching: %w", ce), &target))
	assert.Same(t, ce, target)
}
