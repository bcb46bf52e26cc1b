// Package web serves recorded sweep results over HTTP so hit-rate curves
// can be inspected from a browser.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"go.uber.org/zap"

	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/sweep"
)

// A Server exposes one recorded sweep table as a JSON API.
type Server struct {
	db     datarecording.DataReader
	table  string
	port   int
	logger *zap.Logger
}

// NewServer creates a server over a recorded results database.
func NewServer(
	db datarecording.DataReader,
	table string,
	port int,
	logger *zap.Logger,
) *Server {
	db.MapTable(table, sweep.TableEntry{})

	return &Server{
		db:     db,
		table:  table,
		port:   port,
		logger: logger,
	}
}

// Start begins serving and opens the browser. A port of 0 or below 1024
// lets the OS pick one.
func (s *Server) Start() error {
	r := mux.NewRouter()
	r.HandleFunc("/api/tables", s.listTables)
	r.HandleFunc("/api/points", s.listPoints)
	r.HandleFunc("/api/curves/{axis}", s.curve)
	r.HandleFunc("/api/resource", s.listResources)

	actualPort := ":0"
	if s.port > 1023 {
		actualPort = ":" + strconv.Itoa(s.port)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://localhost:%d/api/points",
		listener.Addr().(*net.TCPAddr).Port)

	s.logger.Info("serving sweep results", zap.String("url", url))

	if err := browser.OpenURL(url); err != nil {
		s.logger.Warn("cannot open browser", zap.Error(err))
	}

	return http.Serve(listener, r)
}

func (s *Server) listTables(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.db.ListTables())
}

func (s *Server) listPoints(w http.ResponseWriter, r *http.Request) {
	results, err := s.queryAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, results)
}

func (s *Server) curve(w http.ResponseWriter, r *http.Request) {
	axisName := mux.Vars(r)["axis"]

	var axis sweep.Axis
	switch axisName {
	case "capacity":
		axis = sweep.AxisCapacity
	case "block_size":
		axis = sweep.AxisBlockSize
	case "associativity":
		axis = sweep.AxisAssociativity
	default:
		http.Error(w, "unknown axis "+axisName, http.StatusNotFound)
		return
	}

	entries, err := s.queryAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type curvePoint struct {
		X       uint64  `json:"x"`
		HitRate float64 `json:"hit_rate"`
	}

	points := make([]curvePoint, 0, len(entries))
	for _, e := range entries {
		var x uint64
		switch axis {
		case sweep.AxisCapacity:
			x = e.Capacity
		case sweep.AxisBlockSize:
			x = e.BlockSize
		case sweep.AxisAssociativity:
			x = uint64(e.Associativity)
		}

		points = append(points, curvePoint{X: x, HitRate: e.HitRate})
	}

	s.writeJSON(w, points)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (s *Server) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memoryInfo, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (s *Server) queryAll(ctx context.Context) ([]*sweep.TableEntry, error) {
	rows, _, err := s.db.Query(ctx, s.table, datarecording.QueryParams{})
	if err != nil {
		return nil, err
	}

	entries := make([]*sweep.TableEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.(*sweep.TableEntry))
	}

	return entries, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("cannot write response", zap.Error(err))
	}
}
