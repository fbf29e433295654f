package http

import (
	"intent-router/internal/assistant"
	"intent-router/internal/route"
)

// --- Request DTOs ---

type askReq struct {
	Query string `json:"query"`
}

// Blank queries are rejected by the router so they share its error.
func (r askReq) validate() error { return nil }

func (r askReq) toInput() assistant.AskInput {
	return assistant.AskInput{Query: r.Query}
}

// ---

type syncReq struct {
	Mode string `form:"mode"`
}

func (r syncReq) validate() error {
	if r.Mode == "" {
		return nil
	}
	_, err := route.ParseSyncMode(r.Mode)
	return err
}

func (r syncReq) toInput() assistant.SyncInput {
	return assistant.SyncInput{Mode: r.Mode}
}

// --- Response DTOs ---

type hitResp struct {
	Route     string  `json:"route"`
	Utterance string  `json:"utterance"`
	Score     float64 `json:"score"`
}

type askResp struct {
	Answer     string    `json:"answer"`
	Route      string    `json:"route"`
	BestRoute  string    `json:"best_route,omitempty"`
	Confidence float64   `json:"confidence"`
	Threshold  float64   `json:"threshold"`
	Outcome    string    `json:"outcome"`
	Handler    string    `json:"handler,omitempty"`
	Hits       []hitResp `json:"hits"`
}

func (h *handler) newAskResp(o assistant.AskOutput) askResp {
	d := o.Decision
	hits := make([]hitResp, 0, len(d.Hits))
	for _, hit := range d.Hits {
		hits = append(hits, hitResp{Route: hit.RouteName, Utterance: hit.Utterance, Score: hit.Score})
	}
	return askResp{
		Answer:     o.Answer,
		Route:      d.RouteName,
		BestRoute:  d.BestRoute,
		Confidence: d.Confidence,
		Threshold:  d.Threshold,
		Outcome:    string(o.Outcome),
		Handler:    o.Handler,
		Hits:       hits,
	}
}

// ---

type routeResp struct {
	Name       string  `json:"name"`
	Utterances int     `json:"utterances"`
	Threshold  float64 `json:"threshold"`
	HasHandler bool    `json:"has_handler"`
	IsDefault  bool    `json:"is_default"`
}

type routesResp struct {
	Routes       []routeResp `json:"routes"`
	DefaultRoute string      `json:"default_route,omitempty"`
	IndexSize    int         `json:"index_size"`
}

func (h *handler) newRoutesResp(o assistant.RoutesOutput) routesResp {
	routes := make([]routeResp, 0, len(o.Routes))
	for _, r := range o.Routes {
		routes = append(routes, routeResp{
			Name:       r.Name,
			Utterances: r.Utterances,
			Threshold:  r.Threshold,
			HasHandler: r.HasHandler,
			IsDefault:  r.IsDefault,
		})
	}
	return routesResp{
		Routes:       routes,
		DefaultRoute: o.DefaultRoute,
		IndexSize:    o.IndexSize,
	}
}

// ---

type syncResp struct {
	route.SyncResult
	Fingerprint string `json:"fingerprint"`
}

func (h *handler) newSyncResp(o assistant.SyncOutput) syncResp {
	return syncResp{SyncResult: o.Result, Fingerprint: o.Fingerprint}
}
