// Package fakeapi serves an in-memory /car resource. It backs the client and
// UI tests and the -demo mode of the carmanager binary.
package fakeapi

import (
	"bytes"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carmanager/internal/car"
)

// Call is one request observed by the server.
type Call struct {
	Method string
	Path   string
	Body   []byte
}

// String renders the call as "METHOD /path".
func (c Call) String() string {
	return c.Method + " " + c.Path
}

type failure struct {
	method string
	status int
}

// Server is an in-memory /car backend. Records keep insertion order.
type Server struct {
	mu       sync.Mutex
	cars     []car.Record
	calls    []Call
	failures []failure
	engine   *gin.Engine
}

// New creates a server seeded with the given records. Seeds without an id get one.
func New(seed ...car.Record) *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{}
	for _, r := range seed {
		r = r.Clone()
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		s.cars = append(s.cars, r)
	}

	e := gin.New()
	e.Use(gin.Recovery(), s.record, s.injectFailure)
	e.GET("/car", s.list)
	e.POST("/car", s.create)
	e.PATCH("/car/:id", s.update)
	e.DELETE("/car/:id", s.remove)
	s.engine = e
	return s
}

// DemoSeed returns a few records for the -demo mode.
func DemoSeed() []car.Record {
	return []car.Record{
		{License: "ABC-123", Brand: "Toyota", Series: "Corolla", Remark: car.StringPtr("Company pool")},
		{License: "KL-4471", Brand: "Volkswagen", Series: "Golf"},
		{License: "M-EV-22", Brand: "Tesla", Series: "Model 3", Remark: car.StringPtr("Charging card in glovebox")},
	}
}

// Handler returns the HTTP handler serving the /car routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Cars returns a copy of the stored records.
func (s *Server) Cars() []car.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return car.CloneAll(s.cars)
}

// Calls returns the requests seen so far, in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallStrings returns Calls rendered as "METHOD /path".
func (s *Server) CallStrings() []string {
	calls := s.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// ResetCalls clears the request log.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// FailNext makes the next request with the given method answer with status.
// Failures queue up and are consumed in order.
func (s *Server) FailNext(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{method: method, status: status})
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = c.GetRawData()
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}
	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: c.Request.Method, Path: c.Request.URL.Path, Body: body})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) injectFailure(c *gin.Context) {
	s.mu.Lock()
	for i, f := range s.failures {
		if f.method == c.Request.Method {
			s.failures = append(s.failures[:i], s.failures[i+1:]...)
			s.mu.Unlock()
			c.AbortWithStatusJSON(f.status, gin.H{"error": http.StatusText(f.status)})
			return
		}
	}
	s.mu.Unlock()
	c.Next()
}

func (s *Server) list(c *gin.Context) {
	cars := s.Cars()
	if cars == nil {
		cars = []car.Record{}
	}
	c.JSON(http.StatusOK, cars)
}

func (s *Server) create(c *gin.Context) {
	var in car.Record
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.ID = uuid.NewString()
	s.mu.Lock()
	s.cars = append(s.cars, in.Clone())
	s.mu.Unlock()
	c.JSON(http.StatusCreated, in)
}

func (s *Server) update(c *gin.Context) {
	id := c.Param("id")
	var in car.Record
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cars {
		if s.cars[i].ID == id {
			in.ID = id
			s.cars[i] = in.Clone()
			c.JSON(http.StatusOK, in)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "car not found"})
}

func (s *Server) remove(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cars {
		if s.cars[i].ID == id {
			s.cars = append(s.cars[:i], s.cars[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "car not found"})
}
