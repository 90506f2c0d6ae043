package handlers

import (
	"context"
	"net/http"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/config"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/services"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/types"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/utils"
)

type Handler struct {
	config   *config.Config
	services *services.Services
}

type paginationResponse struct {
	NextKey string `json:"next_key"`
}

type PublicResponse[T any] struct {
	Data       T                   `json:"data"`
	Pagination *paginationResponse `json:"pagination,omitempty"`
}

type Result struct {
	Data   interface{}
	Status int
}

// NewResult returns a successful result, with default status code 200
func NewResultWithPagination[T any](data T, pageToken string) *Result {
	res := &PublicResponse[T]{Data: data, Pagination: &paginationResponse{NextKey: pageToken}}
	return &Result{Data: res, Status: http.StatusOK}
}

func NewResult[T any](data T) *Result {
	res := &PublicResponse[T]{Data: data}
	return &Result{Data: res, Status: http.StatusOK}
}

func New(
	ctx context.Context, cfg *config.Config, services *services.Services,
) (*Handler, error) {
	return &Handler{
		config:   cfg,
		services: services,
	}, nil
}

func parseTxHashQuery(request *http.Request, queryName string) (string, *types.Error) {
	txHash := request.URL.Query().Get(queryName)
	if txHash == "" {
		return "", types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, queryName+" is required")
	}
	if !utils.IsValidTxHash(txHash) {
		return "", types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid "+queryName)
	}
	return txHash, nil
}

func parseEvmAddressQuery(request *http.Request, queryName string) (string, *types.Error) {
	address := request.URL.Query().Get(queryName)
	if address == "" {
		return "", types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, queryName+" is required")
	}
	if !utils.IsValidEvmAddress(address) {
		return "", types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid "+queryName)
	}
	return address, nil
}
