package server

// Server groups the HTTP handlers of every resource the API exposes.
type Server struct {
	PredictionServer
	PageServer
}

func NewServer(
	predictionServer PredictionServer,
	pageServer PageServer,
) Server {
	return Server{
		PredictionServer: predictionServer,
		PageServer:       pageServer,
	}
}
