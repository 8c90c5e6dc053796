package flightsrs

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/flightagg/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/flightagg/pkg/core/cerr"
	"github.com/momeni/flightagg/pkg/core/model"
)

// Passengers is a pointer, so a zero count reaches the model checks
// instead of failing as a missing field.
type rawSearchReq struct {
	Origin        string `json:"origin" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	DepartureDate string `json:"departureDate" binding:"required,datetime=2006-01-02"`
	ReturnDate    string `json:"returnDate" binding:"required,datetime=2006-01-02"`
	Passengers    *int   `json:"numberOfPassengers" binding:"required"`
}

type searchReq struct {
	Origin        model.IATACode
	Destination   model.IATACode
	DepartureDate model.Date
	ReturnDate    model.Date
	Passengers    int
}

func (rs *resource) DserSearchReq(c *gin.Context) *searchReq {
	req := &rawSearchReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	val := &searchReq{Passengers: *req.Passengers}
	var err error
	if val.Origin, err = model.ParseIATACode(req.Origin); err != nil {
		serdser.SerErr(c, cerr.BadRequest(err))
		return nil
	}
	if val.Destination, err = model.ParseIATACode(req.Destination); err != nil {
		serdser.SerErr(c, cerr.BadRequest(err))
		return nil
	}
	if val.DepartureDate, err = model.ParseDate(req.DepartureDate); err != nil {
		serdser.SerErr(c, cerr.BadRequest(err))
		return nil
	}
	if val.ReturnDate, err = model.ParseDate(req.ReturnDate); err != nil {
		serdser.SerErr(c, cerr.BadRequest(err))
		return nil
	}
	return val
}
