package web

import "net/http"

// registerRoutes binds every API path. Handlers switch on the method themselves.
func registerRoutes(mux *http.ServeMux) {
	// Session
	mux.HandleFunc("/api/auth/login", handleLogin)
	mux.HandleFunc("/api/auth/logout", handleLogout)
	mux.HandleFunc("/api/auth/verify", handleVerify)

	// Admin
	mux.HandleFunc("/api/members", handleMembers)
	mux.HandleFunc("/api/trainers", handleTrainers)
	mux.HandleFunc("/api/machines", handleMachines)
	mux.HandleFunc("/api/workouts", handleWorkouts)
	mux.HandleFunc("/api/diet", handleDiet)
	mux.HandleFunc("/api/attendance", handleAttendance)
	mux.HandleFunc("/api/measurements", handleMeasurements)
	mux.HandleFunc("/api/finances", handleFinances)
	mux.HandleFunc("/api/chat", handleChat)
	mux.HandleFunc("/api/chat/ws", handleChatSocket)
	mux.HandleFunc("/api/dashboard", handleDashboard)
	mux.HandleFunc("/api/reports", handleReports)
	mux.HandleFunc("/api/export", handleExport)
	mux.HandleFunc("/api/reminders", handleReminders)
	mux.HandleFunc("/api/reset", handleReset)

	// Member portal
	mux.HandleFunc("/api/portal/profile", handlePortalProfile)
	mux.HandleFunc("/api/portal/attendance", handlePortalAttendance)
	mux.HandleFunc("/api/portal/measurements", handlePortalMeasurements)
	mux.HandleFunc("/api/portal/workouts", handlePortalWorkouts)
	mux.HandleFunc("/api/portal/diet", handlePortalDiet)
	mux.HandleFunc("/api/portal/chat", handlePortalChat)
	mux.HandleFunc("/api/portal/chat/ws", handlePortalChatSocket)
	mux.HandleFunc("/api/portal/report", handlePortalReport)
}
