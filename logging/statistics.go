package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"
)

// Statistics represents the collected request statistics
type Statistics struct {
	UniqueVisitors  map[string]time.Time `json:"uniqueVisitors"`  // IP -> last visit
	ScoreRequests   int                  `json:"scoreRequests"`   // Total number of scoring requests
	ErrorCount      int                  `json:"errorCount"`      // Requests answered with a 4xx/5xx
	EndpointHits    map[string]int       `json:"endpointHits"`    // Route -> count
	AverageLoadTime float64              `json:"averageLoadTime"` // Milliseconds
	TotalLoadTime   float64              `json:"totalLoadTime"`   // Used to calculate the average
	LastPersisted   time.Time            `json:"lastPersisted"`   // Last time stats were saved

	path    string
	devMode bool
	mutex   sync.RWMutex
}

// NewStatistics creates request statistics persisted at path, loading any
// previously saved values. devMode exposes per-endpoint counts.
func NewStatistics(path string, devMode bool) (*Statistics, error) {
	s := &Statistics{
		UniqueVisitors: make(map[string]time.Time),
		EndpointHits:   make(map[string]int),
		LastPersisted:  time.Now(),
		path:           path,
		devMode:        devMode,
	}
	if err := s.Load(); err != nil {
		return s, err
	}
	return s, nil
}

// TrackVisitor records a unique visitor
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = time.Now()
}

// TrackRequest records a scoring request
func (s *Statistics) TrackRequest(endpoint string, loadTime float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.ScoreRequests++
	if endpoint != "" {
		s.EndpointHits[endpoint]++
	}
	if hasError {
		s.ErrorCount++
	}

	s.TotalLoadTime += loadTime
	s.AverageLoadTime = s.TotalLoadTime / float64(s.ScoreRequests)
}

// Requests returns the number of tracked scoring requests
func (s *Statistics) Requests() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.ScoreRequests
}

func (s *Statistics) uniqueVisitorsLocked(window time.Duration) int {
	count := 0
	cutoff := time.Now().Add(-window)
	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}
	return count
}

func (s *Statistics) errorRateLocked() float64 {
	if s.ScoreRequests == 0 {
		return 0
	}
	return float64(s.ErrorCount) / float64(s.ScoreRequests) * 100
}

// GetUniqueVisitorsCount returns the number of unique visitors in the last 24 hours
func (s *Statistics) GetUniqueVisitorsCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.uniqueVisitorsLocked(24 * time.Hour)
}

// GetErrorRate returns the error rate as a percentage
func (s *Statistics) GetErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.errorRateLocked()
}

// EndpointCount is the request count of one route.
type EndpointCount struct {
	Endpoint string `json:"endpoint"`
	Count    int    `json:"count"`
}

// GetTopEndpoints returns the n most requested routes
func (s *Statistics) GetTopEndpoints(n int) []EndpointCount {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.topEndpointsLocked(n)
}

func (s *Statistics) topEndpointsLocked(n int) []EndpointCount {
	counts := make([]EndpointCount, 0, len(s.EndpointHits))
	for endpoint, count := range s.EndpointHits {
		counts = append(counts, EndpointCount{Endpoint: endpoint, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Endpoint < counts[j].Endpoint
	})
	if n < len(counts) {
		counts = counts[:n]
	}
	return counts
}

// Save persists the statistics to the configured file
func (s *Statistics) Save() error {
	if s.path == "" {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LastPersisted = time.Now()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("could not encode statistics: %w", err)
	}

	// Write to a temporary file first so a failed write keeps the last good copy
	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("could not write statistics file: %w", err)
	}
	if err := os.Rename(tempFile, s.path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("could not replace statistics file: %w", err)
	}
	return nil
}

// Load reads the statistics from the configured file. A missing file is
// not an error.
func (s *Statistics) Load() error {
	if s.path == "" {
		return nil
	}

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not open statistics file: %w", err)
	}
	defer file.Close()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := json.NewDecoder(file).Decode(s); err != nil {
		return fmt.Errorf("could not decode statistics: %w", err)
	}
	if s.UniqueVisitors == nil {
		s.UniqueVisitors = make(map[string]time.Time)
	}
	if s.EndpointHits == nil {
		s.EndpointHits = make(map[string]int)
	}
	return nil
}

// GetStatistics returns a summary of the statistics. Per-endpoint counts
// are only included in development mode.
func (s *Statistics) GetStatistics() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	summary := map[string]interface{}{
		"uniqueVisitors24h": s.uniqueVisitorsLocked(24 * time.Hour),
		"totalRequests":     s.ScoreRequests,
		"errorRate":         s.errorRateLocked(),
		"averageLoadTime":   s.AverageLoadTime,
	}
	if s.devMode {
		summary["topEndpoints"] = s.topEndpointsLocked(5)
	}
	return summary
}
