package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"citysync-be/apperrors"
	"citysync-be/services"
)

type IssueController struct {
	issues    *services.IssueService
	uploadDir string
}

func NewIssueController(issues *services.IssueService, uploadDir string) *IssueController {
	return &IssueController{issues: issues, uploadDir: uploadDir}
}

// CreateIssue handles a citizen's multipart issue report. The image file is
// stored under the upload directory and its URL recorded on the issue.
func (ctrl *IssueController) CreateIssue(c *gin.Context) {
	citizenID := c.GetString("user_id")
	if citizenID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	description := c.PostForm("description")
	location := c.PostForm("location")
	category := c.PostForm("category")

	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, apperrors.ErrMissingAttachment)
		return
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(ctrl.uploadDir, filename)); err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}

	issue, err := ctrl.issues.Report(c.Request.Context(), services.ReportInput{
		CitizenID:   citizenID,
		Description: description,
		Location:    location,
		Category:    category,
		ImageURL:    "/uploads/" + filename,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Issue reported",
		"issue":   issue,
	})
}

// GetAllIssues lists issues with reporter details, optionally filtered by
// category
func (ctrl *IssueController) GetAllIssues(c *gin.Context) {
	issues, err := ctrl.issues.ListWithReporters(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"issues":  issues,
	})
}

// GetIssue retrieves an issue by its ID
func (ctrl *IssueController) GetIssue(c *gin.Context) {
	issue, err := ctrl.issues.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"issue":   issue,
	})
}

// UpdateIssueStatus overwrites an issue's status
func (ctrl *IssueController) UpdateIssueStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	issue, err := ctrl.issues.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"issue":   issue,
	})
}

// AssignIssue assigns an issue to an employee. Without an explicit
// employeeId the authenticated employee claims the issue themselves.
func (ctrl *IssueController) AssignIssue(c *gin.Context) {
	var input struct {
		EmployeeID string `json:"employeeId"`
	}

	// body is optional for self-claims
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
	}

	employeeID := input.EmployeeID
	if employeeID == "" {
		employeeID = c.GetString("user_id")
	}
	if employeeID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	issue, err := ctrl.issues.Assign(c.Request.Context(), c.Param("id"), employeeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Issue assigned",
		"issue":   issue,
	})
}

// GetAssignedIssues lists the issues assigned to the authenticated employee
func (ctrl *IssueController) GetAssignedIssues(c *gin.Context) {
	employeeID := c.GetString("user_id")
	if employeeID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	issues, err := ctrl.issues.ListByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"issues":  issues,
	})
}
