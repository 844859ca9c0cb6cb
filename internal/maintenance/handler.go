package maintenance

import (
	"log/slog"
	"net/http"

	"github.com/mjcnael/mechanical/internal/dto"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /foremen", h.ListForemen)
	mux.HandleFunc("GET /foremen/{id}", h.GetForeman)
	mux.HandleFunc("POST /foremen", h.CreateForeman)
	mux.HandleFunc("PUT /foremen/{id}", h.UpdateForeman)

	mux.HandleFunc("GET /technicians", h.ListTechnicians)
	mux.HandleFunc("GET /technicians/{id}", h.GetTechnician)
	mux.HandleFunc("GET /technicians/{id}/tasks", h.TechnicianTasks)
	mux.HandleFunc("POST /technicians", h.CreateTechnician)
	mux.HandleFunc("PUT /technicians/{id}", h.UpdateTechnician)

	mux.HandleFunc("GET /technician-tasks", h.SearchTasks)
	mux.HandleFunc("GET /technician-tasks/{id}", h.GetTask)
	mux.HandleFunc("POST /technician-tasks", h.CreateTask)
	mux.HandleFunc("PUT /technician-tasks/{id}", h.UpdateTask)
	mux.HandleFunc("POST /technician-tasks/status", h.UpdateTaskStatus)
}

// Начальники цехов

func (h *Handler) ListForemen(w http.ResponseWriter, r *http.Request) {
	foremen, err := h.service.ListForemen(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	resp := make([]dto.ForemanResponse, 0, len(foremen))
	for _, foreman := range foremen {
		resp = append(resp, foremanResponse(foreman))
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

func (h *Handler) GetForeman(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	foreman, err := h.service.GetForeman(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, foremanResponse(foreman), h.logger)
}

func (h *Handler) CreateForeman(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateForemanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	foreman, err := h.service.CreateForeman(r.Context(), ForemanCreate{
		FullName:    req.FullName,
		Gender:      Gender(req.Gender),
		Workshop:    req.Workshop,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, foremanResponse(foreman), h.logger)
}

func (h *Handler) UpdateForeman(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req dto.UpdateForemanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	foreman, err := h.service.UpdateForeman(r.Context(), id, ForemanUpdate{
		FullName:    req.FullName,
		Workshop:    req.Workshop,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, foremanResponse(foreman), h.logger)
}

// Технические работники

func (h *Handler) ListTechnicians(w http.ResponseWriter, r *http.Request) {
	technicians, err := h.service.ListTechnicians(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	resp := make([]dto.TechnicianResponse, 0, len(technicians))
	for _, technician := range technicians {
		resp = append(resp, technicianResponse(technician))
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

func (h *Handler) GetTechnician(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	technician, err := h.service.GetTechnician(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, technicianResponse(technician), h.logger)
}

func (h *Handler) TechnicianTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tasks, err := h.service.TechnicianTasks(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, taskResponses(tasks), h.logger)
}

func (h *Handler) CreateTechnician(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTechnicianRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	technician, err := h.service.CreateTechnician(r.Context(), TechnicianCreate{
		Specialization: req.Specialization,
		FullName:       req.FullName,
		Gender:         Gender(req.Gender),
		PhoneNumber:    req.PhoneNumber,
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, technicianResponse(technician), h.logger)
}

func (h *Handler) UpdateTechnician(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req dto.UpdateTechnicianRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	technician, err := h.service.UpdateTechnician(r.Context(), id, TechnicianUpdate{
		Specialization: req.Specialization,
		FullName:       req.FullName,
		PhoneNumber:    req.PhoneNumber,
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, technicianResponse(technician), h.logger)
}

// Задачи

func (h *Handler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := h.service.SearchTasks(r.Context(), TaskFilter{
		DateStart:      q.Get("date_start"),
		DateEnd:        q.Get("date_end"),
		Workshop:       q.Get("workshop"),
		TechnicianName: q.Get("technician_name"),
		ForemanName:    q.Get("foreman_name"),
		Status:         q.Get("status"),
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, taskResponses(tasks), h.logger)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	task, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse(task), h.logger)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	task, err := h.service.CreateTask(r.Context(), TaskCreate{
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		WorkshopForemanID: req.WorkshopForemanID,
		ForemanID:         req.ForemanID,
		TechnicianID:      req.TechnicianID,
		TaskDescription:   req.TaskDescription,
		Important:         req.Important,
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, taskResponse(task), h.logger)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req dto.UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	task, err := h.service.UpdateTask(r.Context(), id, TaskUpdate{
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		TaskDescription: req.TaskDescription,
		Important:       req.Important,
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse(task), h.logger)
}

func (h *Handler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTaskStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	task, err := h.service.UpdateTaskStatus(r.Context(), req.TaskID, req.Status)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse(task), h.logger)
}

func foremanResponse(f Foreman) dto.ForemanResponse {
	return dto.ForemanResponse{
		ForemanID:   f.ID,
		FullName:    f.FullName,
		Gender:      string(f.Gender),
		Workshop:    f.Workshop,
		PhoneNumber: f.PhoneNumber,
	}
}

func technicianResponse(t Technician) dto.TechnicianResponse {
	return dto.TechnicianResponse{
		TechnicianID:   t.ID,
		Specialization: t.Specialization,
		FullName:       t.FullName,
		Gender:         string(t.Gender),
		PhoneNumber:    t.PhoneNumber,
	}
}

func taskResponse(t Task) dto.TaskResponse {
	return dto.TaskResponse{
		TaskID:          t.ID,
		StartTime:       t.StartTime,
		EndTime:         t.EndTime,
		Workshop:        t.Workshop,
		ForemanID:       t.ForemanID,
		TechnicianID:    t.TechnicianID,
		TaskDescription: t.TaskDescription,
		Status:          string(t.Status),
		Important:       t.Important,
	}
}

func taskResponses(tasks []Task) []dto.TaskResponse {
	resp := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, taskResponse(task))
	}
	return resp
}
