package notify

// Event names carried on the notification queue.
const (
	EventWorkerHired   = "worker_hired"
	EventOfferRejected = "offer_rejected"
	EventJobCompleted  = "job_completed"
	EventWorkerRated   = "worker_rated"
	EventNewMessage    = "new_message"
)

// Job is the JSON payload put on the RabbitMQ queue for the notify worker.
// To is the recipient email; Data carries event-specific display fields
// (names, job title, score).
type Job struct {
	Event string         `json:"event"`
	To    string         `json:"to"`
	Data  map[string]any `json:"data,omitempty"`
}

// Subject returns the email subject line for an event.
func Subject(event string) string {
	switch event {
	case EventWorkerHired:
		return "¡Te han contratado!"
	case EventOfferRejected:
		return "Propuesta rechazada"
	case EventJobCompleted:
		return "Trabajo completado"
	case EventWorkerRated:
		return "Has recibido una calificación"
	case EventNewMessage:
		return "Tienes un mensaje nuevo"
	default:
		return "Notificación de ChambaNica"
	}
}
