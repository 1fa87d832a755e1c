package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sweater-ventures/courtside/app"
)

func init() {
	registerRoute(func(app *app.Application, router *http.ServeMux) {
		router.Handle("GET /{resource}", routeHandler(app, getResourceHandler))
		router.Handle("POST /{resource}/refresh", routeHandler(app, refreshResourceHandler))
	})
}

type ResourceResponse struct {
	Resource app.Resource `json:"resource"`
	Data     any          `json:"data"`
	Loading  bool         `json:"loading"`
	Error    *string      `json:"error"`
}

func resourceResponse(courtside *app.Application, r app.Resource, data any) ResourceResponse {
	resp := ResourceResponse{
		Resource: r,
		Data:     data,
		Loading:  courtside.Provider.IsDataLoading(r),
	}
	if msg := courtside.Provider.GetDataError(r); msg != "" {
		resp.Error = &msg
	} else if msg := courtside.Preloader.GetError(r); msg != "" {
		resp.Error = &msg
	}
	return resp
}

func resourceFromPath(w http.ResponseWriter, r *http.Request) (app.Resource, bool) {
	resource, err := app.ParseResource(r.PathValue("resource"))
	if err != nil {
		writeJsonError(w, http.StatusNotFound, err.Error())
		return "", false
	}
	return resource, true
}

// getResourceHandler answers from the cache when it can. Otherwise it
// starts a fetch and waits up to FetchTimeout for it. The fetch runs on a
// context detached from the request, so a timeout or a client going away
// leaves it to finish and fill the cache.
func getResourceHandler(courtside *app.Application, w http.ResponseWriter, r *http.Request) {
	resource, ok := resourceFromPath(w, r)
	if !ok {
		return
	}

	if data, cached := courtside.Provider.GetDataWithFallback(resource); cached {
		writeJsonResponse(w, http.StatusOK, resourceResponse(courtside, resource, data))
		return
	}

	data, err := fetchWithTimeout(r.Context(), courtside, resource)
	if err != nil {
		log(r.Context()).Warn("On-demand fetch did not finish", "resource", resource, "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			writeJsonError(w, http.StatusGatewayTimeout, fmt.Sprintf("Timed out loading %s", resource))
			return
		}
		writeJsonError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, resourceResponse(courtside, resource, data))
}

func fetchWithTimeout(ctx context.Context, courtside *app.Application, resource app.Resource) (any, error) {
	result := make(chan any, 1)
	fetchCtx := context.WithoutCancel(ctx)
	go func() {
		result <- courtside.Preloader.PreloadResource(fetchCtx, resource)
	}()

	timer := time.NewTimer(courtside.Config.FetchTimeout)
	defer timer.Stop()

	select {
	case data := <-result:
		return data, nil
	case <-timer.C:
		return nil, context.DeadlineExceeded
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func refreshResourceHandler(courtside *app.Application, w http.ResponseWriter, r *http.Request) {
	resource, ok := resourceFromPath(w, r)
	if !ok {
		return
	}
	data, err := courtside.Provider.RefreshData(r.Context(), resource)
	if err != nil {
		writeJsonError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, resourceResponse(courtside, resource, data))
}
