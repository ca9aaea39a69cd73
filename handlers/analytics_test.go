package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

func (s *E2ETestSuite) Test30_AnalyticsUnbounded() {
	// Give the created post a like so the distinct count is observable
	s.doJSON("POST", fmt.Sprintf("/api/posts/%d/like/", s.createdPostID),
		s.bobToken, struct{}{}, nil)

	req, _ := http.NewRequest("GET", s.baseURL+"/api/analytics/", nil)
	req.Header.Set("Authorization", "Bearer "+s.aliceToken)
	resp, err := http.DefaultClient.Do(req)
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var entries []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&entries)
	s.GreaterOrEqual(len(entries), 1)

	found := false
	for _, entry := range entries {
		s.Contains(entry, "date")
		s.Contains(entry, "likes_count")
		s.Contains(entry, "post_id")
		s.Contains(entry, "id of the user who created this post")
		if int(entry["post_id"].(float64)) == s.createdPostID {
			found = true
			s.Equal(float64(1), entry["likes_count"])
			s.Equal(float64(s.aliceID), entry["id of the user who created this post"])
		}
	}
	s.True(found, "created post missing from analytics")
}

func (s *E2ETestSuite) Test31_AnalyticsDateWindowIncludesToday() {
	today := time.Now().Format("2006-01-02")
	url := fmt.Sprintf("%s/api/analytics/?date_from=%s&date_to=%s", s.baseURL, today, today)
	req, _ := http.NewRequest("GET", url, nil)
	req.Header.Set("Authorization", "Bearer "+s.aliceToken)
	resp, err := http.DefaultClient.Do(req)
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var entries []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&entries)
	s.GreaterOrEqual(len(entries), 1)
	for _, entry := range entries {
		s.Equal(today, entry["date"])
	}
}

func (s *E2ETestSuite) Test32_AnalyticsDateWindowExcludesPast() {
	url := s.baseURL + "/api/analytics/?date_from=2000-01-01&date_to=2000-01-02"
	req, _ := http.NewRequest("GET", url, nil)
	req.Header.Set("Authorization", "Bearer "+s.aliceToken)
	resp, err := http.DefaultClient.Do(req)
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var entries []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&entries)
	s.Empty(entries)
}

func (s *E2ETestSuite) Test33_AnalyticsMalformedDate() {
	url := s.baseURL + "/api/analytics/?date_from=not-a-date"
	req, _ := http.NewRequest("GET", url, nil)
	req.Header.Set("Authorization", "Bearer "+s.aliceToken)
	resp, err := http.DefaultClient.Do(req)
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) Test34_AnalyticsExport() {
	req, _ := http.NewRequest("GET", s.baseURL+"/api/analytics/export/", nil)
	req.Header.Set("Authorization", "Bearer "+s.aliceToken)
	resp, err := http.DefaultClient.Do(req)
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))
	s.Contains(resp.Header.Get("Content-Disposition"), "attachment")
}

func (s *E2ETestSuite) Test35_AnalyticsExportMalformedDate() {
	req, _ := http.NewRequest("GET", s.baseURL+"/api/analytics/export/?date_to=2024-13-99", nil)
	req.Header.Set("Authorization", "Bearer "+s.aliceToken)
	resp, err := http.DefaultClient.Do(req)
	s.NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
