package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Leganyst/salon-platform/internal/model"
	"github.com/Leganyst/salon-platform/internal/service"
)

var validate = validator.New()

const dateLayout = "2006-01-02"

func parseOrgID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization id"})
		return uuid.Nil, false
	}
	return id, true
}

// ===== Организации =====

type createOrganizationRequest struct {
	Name     string `json:"name" binding:"required"`
	Currency string `json:"currency"`
}

func (s *Server) createOrganization(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org, err := s.organizations.Create(c.Request.Context(), req.Name, req.Currency)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":       org.ID.String(),
		"name":     org.Name,
		"currency": org.Currency,
	})
}

func (s *Server) getOrganization(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	org, err := s.organizations.Get(c.Request.Context(), orgID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       org.ID.String(),
		"name":     org.Name,
		"currency": org.Currency,
	})
}

// ===== Планировщик =====

type scheduleRequest struct {
	ServiceIDs    []string `json:"service_ids" binding:"required,min=1"`
	Date          string   `json:"date" binding:"required"`
	CustomerName  string   `json:"customer_name"`
	CustomerPhone string   `json:"customer_phone"`
}

func (s *Server) scheduleAppointment(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	serviceIDs := make([]uuid.UUID, 0, len(req.ServiceIDs))
	for _, raw := range req.ServiceIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service id: " + raw})
			return
		}
		serviceIDs = append(serviceIDs, id)
	}

	appt, err := s.scheduling.Schedule(c.Request.Context(), orgID, service.ScheduleRequest{
		ServiceIDs:    serviceIDs,
		Date:          date,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appointmentResponse(appt))
}

func (s *Server) queue(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	page, pageSize := paginationParams(c)
	result, err := s.scheduling.Queue(c.Request.Context(), orgID, date, page, pageSize)
	if err != nil {
		s.respondError(c, err)
		return
	}

	entries := make([]gin.H, 0, len(result.Items))
	for _, e := range result.Items {
		entries = append(entries, gin.H{
			"appointment_id": e.AppointmentID.String(),
			"order_number":   e.OrderNumber,
			"status":         e.Status,
			"customer_name":  e.CustomerName,
			"estimated_time": e.EstimatedTime,
			"projected_time": e.ProjectedTime,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"entries":  entries,
		"page":     result.Page,
		"has_next": result.HasNext,
		"total":    result.Total,
	})
}

// ===== Машина состояний =====

type startLineRequest struct {
	StaffID string `json:"staff_id" binding:"required"`
	At      string `json:"at"`
}

func (s *Server) startLine(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	var req startLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	at, ok := parseOptionalTime(c, req.At)
	if !ok {
		return
	}

	line, err := s.appointments.StartLine(c.Request.Context(), orgID, c.Param("lineId"), req.StaffID, at)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lineResponse(line))
}

type completeLineRequest struct {
	At string `json:"at"`
}

func (s *Server) completeLine(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	// Тело опционально: без него момент завершения — now().
	var req completeLineRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	at, ok := parseOptionalTime(c, req.At)
	if !ok {
		return
	}

	appt, err := s.appointments.CompleteLine(c.Request.Context(), orgID, c.Param("lineId"), at)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointmentResponse(appt))
}

func (s *Server) cancelAppointment(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	appt, err := s.appointments.Cancel(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointmentResponse(appt))
}

type assignLineRequest struct {
	StaffID string `json:"staff_id" binding:"required"`
}

func (s *Server) assignLine(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	var req assignLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	line, err := s.staff.AssignLine(c.Request.Context(), orgID, c.Param("lineId"), req.StaffID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lineResponse(line))
}

// ===== Окно доступности =====

func (s *Server) getWindow(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	window, err := s.availability.Window(c.Request.Context(), orgID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, windowResponse(window))
}

type setWindowRequest struct {
	OpeningMinute *int             `json:"opening_minute" validate:"omitempty,min=0,max=1440"`
	ClosingMinute *int             `json:"closing_minute" validate:"omitempty,min=0,max=1440"`
	Days          map[string]*bool `json:"days"`
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

func (s *Server) setWindow(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	var req setWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := service.WindowPatch{
		OpeningMinute: req.OpeningMinute,
		ClosingMinute: req.ClosingMinute,
		Days:          map[time.Weekday]*bool{},
	}
	for name, open := range req.Days {
		day, ok := weekdayNames[name]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown weekday: " + name})
			return
		}
		patch.Days[day] = open
	}

	window, err := s.availability.SetWindow(c.Request.Context(), orgID, patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, windowResponse(window))
}

// ===== Персонал =====

func (s *Server) listCapable(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service_id"})
		return
	}

	staff, err := s.staff.ListCapable(c.Request.Context(), orgID, serviceID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	result := make([]gin.H, 0, len(staff))
	for _, m := range staff {
		result = append(result, gin.H{
			"id":           m.ID.String(),
			"display_name": m.DisplayName,
		})
	}
	c.JSON(http.StatusOK, gin.H{"staff": result})
}

type createStaffRequest struct {
	DisplayName string   `json:"display_name" binding:"required"`
	ServiceIDs  []string `json:"service_ids"`
}

func (s *Server) createStaff(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	capabilities := make([]uuid.UUID, 0, len(req.ServiceIDs))
	for _, raw := range req.ServiceIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service id: " + raw})
			return
		}
		capabilities = append(capabilities, id)
	}

	member, err := s.staff.CreateStaff(c.Request.Context(), orgID, req.DisplayName, capabilities)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":           member.ID.String(),
		"display_name": member.DisplayName,
	})
}

// ===== Каталог =====

func (s *Server) listServices(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	page, pageSize := paginationParams(c)
	onlyActive := c.DefaultQuery("active", "true") != "false"

	services, total, err := s.catalog.ListServices(c.Request.Context(), orgID, onlyActive, pageSize, (page-1)*pageSize)
	if err != nil {
		s.respondError(c, err)
		return
	}

	result := make([]gin.H, 0, len(services))
	for _, svc := range services {
		result = append(result, serviceResponse(&svc))
	}
	c.JSON(http.StatusOK, gin.H{"services": result, "total": total})
}

func (s *Server) getService(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	svc, err := s.catalog.GetService(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, serviceResponse(svc))
}

type createServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DurationMin int64  `json:"duration_min" binding:"required,min=1"`
	DurationMax int64  `json:"duration_max" binding:"required,min=1"`
	Price       string `json:"price" binding:"required"`
}

func (s *Server) createService(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	var req createServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	svc, err := s.catalog.CreateService(c.Request.Context(), orgID, service.ServiceInput{
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		DurationMax: req.DurationMax,
		Price:       price,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, serviceResponse(svc))
}

type createProductRequest struct {
	Name  string `json:"name" binding:"required"`
	Price string `json:"price" binding:"required"`
	Stock int64  `json:"stock"`
}

func (s *Server) createProduct(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	p, err := s.catalog.CreateProduct(c.Request.Context(), orgID, service.ProductInput{
		Name:  req.Name,
		Price: price,
		Stock: req.Stock,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, productResponse(p))
}

func (s *Server) getProduct(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	p, err := s.catalog.GetProduct(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productResponse(p))
}

// ===== Финансы =====

func (s *Server) balance(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	amount, currency, err := s.ledger.Balance(c.Request.Context(), orgID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":  amount.String(),
		"currency": currency,
	})
}

func (s *Server) dailyAggregate(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	from, to, ok := rangeParams(c)
	if !ok {
		return
	}

	result, err := s.ledger.DailyAggregate(c.Request.Context(), orgID, from, to)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"revenues":    dayAmounts(result.Revenues),
		"withdrawals": dayAmounts(result.Withdrawals),
	})
}

func (s *Server) listTransactions(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	from, to, ok := rangeParams(c)
	if !ok {
		return
	}

	page, pageSize := paginationParams(c)
	txs, total, err := s.ledger.Transactions(c.Request.Context(), orgID, from, to, pageSize, (page-1)*pageSize)
	if err != nil {
		s.respondError(c, err)
		return
	}

	result := make([]gin.H, 0, len(txs))
	for _, t := range txs {
		result = append(result, gin.H{
			"id":          t.ID.String(),
			"type":        t.Type,
			"amount":      t.Amount.String(),
			"status":      t.Status,
			"description": t.Description,
			"occurred_at": t.OccurredAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"transactions": result, "total": total})
}

type manualPostingRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
	OccurredAt  string `json:"occurred_at"`
}

func (s *Server) postExpense(c *gin.Context) {
	s.manualPosting(c, model.TransactionTypeExpense)
}

func (s *Server) postWithdrawal(c *gin.Context) {
	s.manualPosting(c, model.TransactionTypeWithdrawal)
}

func (s *Server) manualPosting(c *gin.Context, txType model.TransactionType) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	var req manualPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "occurred_at must be RFC3339"})
			return
		}
		occurredAt = parsed
	}

	tx, err := s.ledger.Post(c.Request.Context(), orgID, txType, amount, req.Description, occurredAt, nil)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":     tx.ID.String(),
		"type":   tx.Type,
		"amount": tx.Amount.String(),
	})
}

// ===== Заказы =====

type createOrderRequest struct {
	Items []struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int64  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
	DeliveryFee   string `json:"delivery_fee"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

func (s *Server) createOrder(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deliveryFee := decimal.Zero
	if req.DeliveryFee != "" {
		parsed, err := decimal.NewFromString(req.DeliveryFee)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid delivery_fee"})
			return
		}
		deliveryFee = parsed
	}

	items := make([]service.OrderItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id: " + item.ProductID})
			return
		}
		items = append(items, service.OrderItemRequest{ProductID: productID, Quantity: item.Quantity})
	}

	order, err := s.orders.CreateOrder(c.Request.Context(), orgID, items, deliveryFee, req.CustomerName, req.CustomerPhone)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderResponse(order))
}

func (s *Server) listOrders(c *gin.Context) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	page, pageSize := paginationParams(c)
	orders, total, err := s.orders.ListOrders(c.Request.Context(), orgID, pageSize, (page-1)*pageSize)
	if err != nil {
		s.respondError(c, err)
		return
	}

	result := make([]gin.H, 0, len(orders))
	for i := range orders {
		result = append(result, orderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{"orders": result, "total": total})
}

func (s *Server) markOrderProcessing(c *gin.Context) {
	s.orderTransition(c, s.orders.MarkProcessing)
}

func (s *Server) markOrderDelivered(c *gin.Context) {
	s.orderTransition(c, s.orders.MarkDelivered)
}

func (s *Server) cancelOrder(c *gin.Context) {
	s.orderTransition(c, s.orders.CancelOrder)
}

func serviceResponse(svc *model.Service) gin.H {
	return gin.H{
		"id":           svc.ID.String(),
		"name":         svc.Name,
		"description":  svc.Description,
		"duration_min": svc.DurationMin,
		"duration_max": svc.DurationMax,
		"price":        svc.Price.String(),
		"is_active":    svc.IsActive,
	}
}

func productResponse(p *model.Product) gin.H {
	return gin.H{
		"id":    p.ID.String(),
		"name":  p.Name,
		"price": p.Price.String(),
		"stock": p.Stock,
	}
}

func (s *Server) orderTransition(
	c *gin.Context,
	fn func(ctx context.Context, orgID uuid.UUID, orderID string) (*model.Order, error),
) {
	orgID, ok := parseOrgID(c)
	if !ok {
		return
	}

	order, err := fn(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(order))
}

// ===== Хелперы =====

func paginationParams(c *gin.Context) (page, pageSize int) {
	page = intQuery(c, "page", 1)
	pageSize = intQuery(c, "page_size", 20)
	return page, pageSize
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func rangeParams(c *gin.Context) (from, to time.Time, ok bool) {
	fromRaw := c.Query("from")
	toRaw := c.Query("to")
	if fromRaw == "" || toRaw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required (YYYY-MM-DD)"})
		return time.Time{}, time.Time{}, false
	}
	fromParsed, err := time.Parse(dateLayout, fromRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	toParsed, err := time.Parse(dateLayout, toRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	// Верхняя граница включает весь день.
	return fromParsed, toParsed.Add(24*time.Hour - time.Nanosecond), true
}

func parseOptionalTime(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at must be RFC3339"})
		return time.Time{}, false
	}
	return parsed, true
}

func appointmentResponse(a *model.Appointment) gin.H {
	lines := make([]gin.H, 0, len(a.Lines))
	for i := range a.Lines {
		lines = append(lines, lineResponse(&a.Lines[i]))
	}
	resp := gin.H{
		"id":             a.ID.String(),
		"date":           time.Time(a.Date).Format(dateLayout),
		"estimated_time": a.EstimatedTime,
		"order_number":   a.OrderNumber,
		"status":         a.Status,
		"customer_name":  a.CustomerName,
		"lines":          lines,
	}
	if a.BarberID != nil {
		resp["barber_id"] = a.BarberID.String()
	}
	return resp
}

func lineResponse(l *model.AppointmentLine) gin.H {
	resp := gin.H{
		"id":         l.ID.String(),
		"service_id": l.ServiceID.String(),
		"price":      l.Price.String(),
	}
	if l.StaffID != nil {
		resp["staff_id"] = l.StaffID.String()
	}
	if l.StartedAt != nil {
		resp["started_at"] = l.StartedAt
	}
	if l.EndedAt != nil {
		resp["ended_at"] = l.EndedAt
	}
	return resp
}

func windowResponse(w *model.AvailabilityWindow) gin.H {
	return gin.H{
		"opening_minute": w.OpeningMinute,
		"closing_minute": w.ClosingMinute,
		"days": gin.H{
			"monday":    w.Monday,
			"tuesday":   w.Tuesday,
			"wednesday": w.Wednesday,
			"thursday":  w.Thursday,
			"friday":    w.Friday,
			"saturday":  w.Saturday,
			"sunday":    w.Sunday,
		},
	}
}

func orderResponse(o *model.Order) gin.H {
	items := make([]gin.H, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, gin.H{
			"product_id": item.ProductID.String(),
			"quantity":   item.Quantity,
			"unit_price": item.UnitPrice.String(),
		})
	}
	return gin.H{
		"id":           o.ID.String(),
		"status":       o.Status,
		"total":        o.Total.String(),
		"delivery_fee": o.DeliveryFee.String(),
		"items":        items,
	}
}

func dayAmounts(list []service.DayAmount) []gin.H {
	result := make([]gin.H, 0, len(list))
	for _, d := range list {
		result = append(result, gin.H{
			"day":    d.Day.Format(dateLayout),
			"amount": d.Amount.String(),
		})
	}
	return result
}
