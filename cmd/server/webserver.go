package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/marben/mandelraster"
	"github.com/marben/mandelraster/encode"
)

// progressInterval is how often a websocket client is told about progress.
const progressInterval = 100 * time.Millisecond

// webServer creates the http server with the render, presets and websocket
// endpoints.
func webServer(svc *renderService, port int) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           svc.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on http://localhost:%d", port)
	return srv
}

func (s *renderService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /render", s.handleRender)
	mux.HandleFunc("GET /presets", handlePresets)
	mux.HandleFunc("/ws", s.handleWebsocket)
	return mux
}

// handleRender renders the viewport described by the query and replies with
// the encoded image.
func (s *renderService) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rd, err := req.resolve()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	job, err := s.start(r.Context(), rd)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	buf, err := renderAndEncode(job, rd.format)
	if err != nil {
		log.Printf("render %+v: %v", rd.viewport, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", rd.format.ContentType())
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("render response: %v", err)
	}
}

func renderAndEncode(p mandel.RasterProvider, f encode.Format) (*bytes.Buffer, error) {
	img, err := p.GetRaster()
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := encode.Encode(buf, img, f); err != nil {
		return nil, fmt.Errorf("encode %v: %w", f, err)
	}
	return buf, nil
}

func statusFor(err error) int {
	if errors.Is(err, mandel.ErrInvalidViewport) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type preset struct {
	Name string `json:"name"`
	mandel.Region
}

func handlePresets(w http.ResponseWriter, _ *http.Request) {
	names := mandel.PresetNames()
	out := make([]preset, 0, len(names))
	for _, name := range names {
		r, _ := mandel.PresetByName(name)
		out = append(out, preset{Name: name, Region: r})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Printf("presets: %v", err)
	}
}

// progress is the JSON message streamed over the websocket while a render
// runs. The last one has Finished == 1, or Error set.
type progress struct {
	Finished float32 `json:"finished"`
	Error    string  `json:"error,omitempty"`
}

// handleWebsocket reads one renderRequest, streams progress and finally
// sends the encoded image as a single binary message.
func (s *renderService) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // TODO: restrict to the deployment's origin once there is one
	})
	if err != nil {
		log.Println(err)
		return
	}
	defer c.CloseNow()
	c.SetReadLimit(1 << 16)

	ctx := r.Context()
	code, err := s.serveWebsocket(ctx, c)
	if err != nil {
		log.Printf("ws: %v", err)
		_ = wsjson.Write(ctx, c, progress{Error: err.Error()})
		c.Close(code, "render failed")
		return
	}
	c.Close(websocket.StatusNormalClosure, "")
}

func (s *renderService) serveWebsocket(ctx context.Context, c *websocket.Conn) (websocket.StatusCode, error) {
	var req renderRequest
	if err := wsjson.Read(ctx, c, &req); err != nil {
		return websocket.StatusUnsupportedData, fmt.Errorf("read request: %w", err)
	}
	rd, err := req.resolve()
	if err != nil {
		return websocket.StatusPolicyViolation, err
	}
	job, err := s.start(ctx, rd)
	if err != nil {
		return websocket.StatusTryAgainLater, err
	}

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	last := float32(-1)
	send := func(f float32) error {
		if f == last {
			return nil
		}
		last = f
		return wsjson.Write(ctx, c, progress{Finished: f})
	}
loop:
	for {
		select {
		case <-job.done():
			break loop
		case <-ticker.C:
			select {
			case f := <-job.progress:
				if err := send(f); err != nil {
					return websocket.StatusGoingAway, fmt.Errorf("write progress: %w", err)
				}
			default:
			}
		case <-ctx.Done():
			return websocket.StatusGoingAway, context.Cause(ctx)
		}
	}

	buf, err := renderAndEncode(job, rd.format)
	if err != nil {
		return websocket.StatusInternalError, err
	}
	if err := send(1); err != nil {
		return websocket.StatusGoingAway, fmt.Errorf("write progress: %w", err)
	}
	if err := c.Write(ctx, websocket.MessageBinary, buf.Bytes()); err != nil {
		return websocket.StatusGoingAway, fmt.Errorf("write image: %w", err)
	}
	return websocket.StatusNormalClosure, nil
}
