package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/carrion626/social-network/repository"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type AnalyticsHandler struct {
	analytics *repository.AnalyticsRepository
}

func NewAnalyticsHandler(analytics *repository.AnalyticsRepository) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// parseDateRange turns the optional date_from/date_to query values into an
// optional [from, until) window over post creation timestamps. date_to is an
// inclusive calendar date, so it is widened to the following midnight.
func parseDateRange(fromStr, toStr string) (*time.Time, *time.Time, error) {
	var from, until *time.Time
	if fromStr != "" {
		t, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date_from %q: expected YYYY-MM-DD", fromStr)
		}
		from = &t
	}
	if toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date_to %q: expected YYYY-MM-DD", toStr)
		}
		widened := t.AddDate(0, 0, 1)
		until = &widened
	}
	return from, until, nil
}

// GetLikesAnalytics reports per-post distinct-liker counts, grouped by the
// post's creation date, optionally bounded by date_from/date_to.
func (h *AnalyticsHandler) GetLikesAnalytics(c *gin.Context) {
	from, until, err := parseDateRange(c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entries, err := h.analytics.LikesByDay(from, until)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ExportLikesAnalytics serves the same report as an XLSX attachment.
func (h *AnalyticsHandler) ExportLikesAnalytics(c *gin.Context) {
	from, until, err := parseDateRange(c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entries, err := h.analytics.LikesByDay(from, until)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	f := excelize.NewFile()
	sheet := "Likes"
	index, err := f.NewSheet(sheet)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Likes count", "Post ID", "Author ID"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}
	for i, entry := range entries {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), entry.Date)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), entry.LikesCount)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), entry.PostID)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), entry.AuthorID)
	}
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "D", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"likes_analytics_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write workbook"})
	}
}
