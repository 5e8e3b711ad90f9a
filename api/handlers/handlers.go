package handlers

import (
	"github.com/kamazuxa/tender/internal/service/tender"
	"github.com/kamazuxa/tender/pkg/logger"
)

type Handlers struct {
	Tender *TenderHandler
}

func NewHandlers(
	tenderService tender.Service,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Tender: NewTenderHandler(tenderService, log),
	}
}
