package v1

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"go-recruitment-tracker/internal/delivery/http/response"
	"go-recruitment-tracker/internal/domain"
	"go-recruitment-tracker/pkg/apperror"
	"go-recruitment-tracker/pkg/logger"
	"go-recruitment-tracker/pkg/storage"

	"github.com/gin-gonic/gin"
	"golang.org/x/image/draw"
)

// maxResumeSize limits resume uploads to 10MB
const maxResumeSize = 10 << 20

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
	resumeStore *storage.ResumeStore
}

// NewCandidateHandler registers candidate CRUD routes
func NewCandidateHandler(protected *gin.RouterGroup, uploadLimited *gin.RouterGroup, candidateUC domain.CandidateUsecase, resumeStore *storage.ResumeStore) {
	handler := &CandidateHandler{candidateUC: candidateUC, resumeStore: resumeStore}

	candidates := protected.Group("/candidates")
	{
		candidates.POST("/full", handler.CreateFull)
		candidates.GET("/:id", handler.Get)
		candidates.DELETE("/:id", handler.Delete)
		candidates.POST("/:id/applications", handler.AddJobApplication)
	}

	uploadLimited.POST("/candidates/:id/resume", handler.UploadResume)

	skills := protected.Group("/candidate-skills")
	{
		skills.PATCH("/:id", handler.UpdateSkill)
		skills.DELETE("/:id", handler.DeleteSkill)
	}

	applications := protected.Group("/job-applications")
	{
		applications.PATCH("/:id", handler.UpdateJobApplication)
		applications.POST("/:id/interview-stages", handler.AddInterviewStage)
	}

	stages := protected.Group("/interview-stages")
	{
		stages.PATCH("/:id", handler.UpdateInterviewStage)
	}
}

// CreateFull godoc
// @Summary      Create a full candidate
// @Description  Creates a candidate together with their skill profile and at least one job application in a single transaction
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        request  body      domain.CreateCandidateInput  true  "Full candidate payload"
// @Success      201  {object}  response.Response{data=domain.CandidateAggregate}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /candidates/full [post]
// @Security     BearerAuth
func (h *CandidateHandler) CreateFull(c *gin.Context) {
	var input domain.CreateCandidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	agg, err := h.candidateUC.CreateFullCandidate(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Candidate created", agg)
}

// Get godoc
// @Summary      Get a candidate
// @Description  Returns the candidate with their skill profile, job applications and interview stages
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.CandidateAggregate}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [get]
// @Security     BearerAuth
func (h *CandidateHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	agg, err := h.candidateUC.GetCandidate(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate retrieved", agg)
}

// Delete godoc
// @Summary      Delete a candidate
// @Description  Deletes the candidate and all owned records. Audit history is preserved.
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [delete]
// @Security     BearerAuth
func (h *CandidateHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.candidateUC.DeleteCandidate(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate deleted", nil)
}

// UploadResume godoc
// @Summary      Upload a candidate resume
// @Description  Uploads a resume (PDF, Word, or a JPEG/PNG scan) to object storage and attaches its URL to the candidate. Scans are downscaled and re-encoded as JPEG before upload.
// @Tags         candidates
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "Candidate ID"
// @Param        file  formData  file  true  "Resume file"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /candidates/{id}/resume [post]
// @Security     BearerAuth
func (h *CandidateHandler) UploadResume(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	if h.resumeStore == nil || !h.resumeStore.IsConfigured() {
		c.Error(apperror.New(http.StatusServiceUnavailable, "Resume storage is not configured", nil))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("No file uploaded"))
		return
	}
	if fileHeader.Size > maxResumeSize {
		c.Error(apperror.BadRequest("File exceeds the 10MB limit"))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedResumeType(fileHeader.Filename, contentType) {
		c.Error(apperror.BadRequest("Only PDF, Word, and JPEG/PNG scans are accepted"))
		return
	}

	// Ensure the candidate exists before paying for the upload
	if _, err := h.candidateUC.GetCandidate(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	// Scanned resumes are downscaled and re-encoded; documents pass through.
	filename := fileHeader.Filename
	if isScanUpload(filename, contentType) {
		compressed, compressErr := compressScan(fileBytes, 1200, 80)
		if compressErr != nil {
			logger.Log.Warn("Scan compression failed, using original", "error", compressErr)
		} else {
			logger.Log.Info("Scan compressed", "from_bytes", len(fileBytes), "to_bytes", len(compressed))
			fileBytes = compressed
			filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
			contentType = "image/jpeg"
		}
	}

	url, err := h.resumeStore.Upload(c.Request.Context(), id, filename, bytes.NewReader(fileBytes), contentType)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	if err := h.candidateUC.AttachResume(c.Request.Context(), id, url); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Resume uploaded", gin.H{"resume_url": url})
}

// UpdateSkill godoc
// @Summary      Update a candidate skill profile
// @Description  Applies a partial update; only fields present in the body are changed
// @Tags         candidate-skills
// @Accept       json
// @Produce      json
// @Param        id       path      int                true  "Skill profile ID"
// @Param        request  body      domain.SkillPatch  true  "Fields to update"
// @Success      200  {object}  response.Response{data=domain.CandidateSkill}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidate-skills/{id} [patch]
// @Security     BearerAuth
func (h *CandidateHandler) UpdateSkill(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var patch domain.SkillPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	skill, err := h.candidateUC.UpdateCandidateSkill(c.Request.Context(), id, patch)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Skill profile updated", skill)
}

// DeleteSkill godoc
// @Summary      Delete a candidate skill profile
// @Tags         candidate-skills
// @Produce      json
// @Param        id   path      int  true  "Skill profile ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidate-skills/{id} [delete]
// @Security     BearerAuth
func (h *CandidateHandler) DeleteSkill(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.candidateUC.DeleteCandidateSkill(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Skill profile deleted", nil)
}

// AddJobApplication godoc
// @Summary      Add a job application to a candidate
// @Tags         job-applications
// @Accept       json
// @Produce      json
// @Param        id       path      int                               true  "Candidate ID"
// @Param        request  body      domain.CreateJobApplicationInput  true  "Job application payload"
// @Success      201  {object}  response.Response{data=domain.JobApplication}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id}/applications [post]
// @Security     BearerAuth
func (h *CandidateHandler) AddJobApplication(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var input domain.CreateJobApplicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	app, err := h.candidateUC.AddJobApplication(c.Request.Context(), id, input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Job application created", app)
}

// UpdateJobApplication godoc
// @Summary      Update a job application
// @Description  Applies a partial update; only fields present in the body are changed
// @Tags         job-applications
// @Accept       json
// @Produce      json
// @Param        id       path      int                         true  "Job application ID"
// @Param        request  body      domain.JobApplicationPatch  true  "Fields to update"
// @Success      200  {object}  response.Response{data=domain.JobApplication}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /job-applications/{id} [patch]
// @Security     BearerAuth
func (h *CandidateHandler) UpdateJobApplication(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var patch domain.JobApplicationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	app, err := h.candidateUC.UpdateJobApplication(c.Request.Context(), id, patch)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job application updated", app)
}

// AddInterviewStage godoc
// @Summary      Record an interview stage
// @Description  Appends an interview round with rating and feedback to a job application
// @Tags         interview-stages
// @Accept       json
// @Produce      json
// @Param        id       path      int                               true  "Job application ID"
// @Param        request  body      domain.CreateInterviewStageInput  true  "Interview stage payload"
// @Success      201  {object}  response.Response{data=domain.InterviewStage}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /job-applications/{id}/interview-stages [post]
// @Security     BearerAuth
func (h *CandidateHandler) AddInterviewStage(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var input domain.CreateInterviewStageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	stage, err := h.candidateUC.AddInterviewStage(c.Request.Context(), id, input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Interview stage recorded", stage)
}

// UpdateInterviewStage godoc
// @Summary      Update an interview stage
// @Tags         interview-stages
// @Accept       json
// @Produce      json
// @Param        id       path      int                         true  "Interview stage ID"
// @Param        request  body      domain.InterviewStagePatch  true  "Fields to update"
// @Success      200  {object}  response.Response{data=domain.InterviewStage}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /interview-stages/{id} [patch]
// @Security     BearerAuth
func (h *CandidateHandler) UpdateInterviewStage(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var patch domain.InterviewStagePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	stage, err := h.candidateUC.UpdateInterviewStage(c.Request.Context(), id, patch)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview stage updated", stage)
}

// parseIDParam parses the :id path parameter as a positive integer
func parseIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid ID parameter")
	}
	return id, nil
}

// allowedResumeType accepts PDF and Word documents plus JPEG/PNG scans,
// by extension or MIME type
func allowedResumeType(filename, contentType string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".doc", ".docx", ".jpg", ".jpeg", ".png":
		return true
	}
	switch contentType {
	case "application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"image/jpeg",
		"image/png":
		return true
	}
	return false
}

// isScanUpload reports whether the upload is an image scan rather than a
// document
func isScanUpload(filename, contentType string) bool {
	if strings.HasPrefix(contentType, "image/") {
		return true
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// compressScan downscales an image scan to maxDimension (longest side,
// aspect ratio preserved) and re-encodes it as JPEG at the given quality
func compressScan(data []byte, maxDimension, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperror.BadRequest("Cannot decode image scan")
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	newWidth, newHeight := width, height
	if width > height {
		if width > maxDimension {
			newWidth = maxDimension
			newHeight = int(float64(height) * float64(maxDimension) / float64(width))
		}
	} else {
		if height > maxDimension {
			newHeight = maxDimension
			newWidth = int(float64(width) * float64(maxDimension) / float64(height))
		}
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
