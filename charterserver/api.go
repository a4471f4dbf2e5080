package charterserver

import (
	"context"

	"gopkg.in/errgo.v1"
	"gopkg.in/httprequest.v1"

	"github.com/rogpeppe/charter/collector"
	"github.com/rogpeppe/charter/exporter"
	"github.com/rogpeppe/charter/googlecharts"
)

var reqServer httprequest.Server

func (h *Handler) apiHandler(p httprequest.Params) (*apiHandler, context.Context, error) {
	return &apiHandler{h}, p.Context, nil
}

type apiHandler struct {
	h *Handler
}

type statusResponse struct {
	Status collector.Status
}

type startRequest struct {
	httprequest.Route `httprequest:"POST /api/start"`
}

// Start starts collection. Starting while collection
// is in progress has no effect.
func (a *apiHandler) Start(*startRequest) (*statusResponse, error) {
	if err := a.h.p.Collector.Start(); err != nil {
		return nil, httprequest.Errorf(httprequest.CodeBadRequest, "%s", err.Error())
	}
	return a.status(), nil
}

type stopRequest struct {
	httprequest.Route `httprequest:"POST /api/stop"`
}

func (a *apiHandler) Stop(*stopRequest) (*statusResponse, error) {
	a.h.p.Collector.Stop()
	return a.status(), nil
}

type clearRequest struct {
	httprequest.Route `httprequest:"POST /api/clear"`
}

// Clear discards all collected data. It fails
// while collection is in progress.
func (a *apiHandler) Clear(*clearRequest) (*statusResponse, error) {
	if err := a.h.p.Collector.Clear(); err != nil {
		if errgo.Cause(err) == collector.ErrRunning {
			return nil, httprequest.Errorf(httprequest.CodeBadRequest, "%s", err.Error())
		}
		return nil, errgo.Mask(err)
	}
	return a.status(), nil
}

type getStatusRequest struct {
	httprequest.Route `httprequest:"GET /api/status"`
}

func (a *apiHandler) GetStatus(*getStatusRequest) (*statusResponse, error) {
	return a.status(), nil
}

func (a *apiHandler) status() *statusResponse {
	return &statusResponse{
		Status: a.h.p.Collector.Status(),
	}
}

type getDataRequest struct {
	httprequest.Route `httprequest:"GET /api/data"`
}

// GetData returns the collected data as a Google Charts data table.
func (a *apiHandler) GetData(*getDataRequest) (*googlecharts.DataTable, error) {
	return googlecharts.NewDataTable(a.h.p.Collector.Snapshot()), nil
}

type exportRequest struct {
	httprequest.Route `httprequest:"POST /api/export"`
}

type exportResponse struct {
	Path string
}

// Export saves the collected data to the export directory.
func (a *apiHandler) Export(*exportRequest) (*exportResponse, error) {
	if a.h.p.ExportDir == "" {
		return nil, httprequest.Errorf(httprequest.CodeNotFound, "server-side export is not enabled")
	}
	path, err := exporter.Save(a.h.p.ExportDir, a.h.p.Collector.Snapshot())
	if err != nil {
		if errgo.Cause(err) == exporter.ErrNoData {
			return nil, httprequest.Errorf(httprequest.CodeNotFound, "%s", err.Error())
		}
		logger.Errorf("cannot export data: %v", err)
		return nil, errgo.Mask(err)
	}
	logger.Infof("exported data to %s", path)
	return &exportResponse{
		Path: path,
	}, nil
}
