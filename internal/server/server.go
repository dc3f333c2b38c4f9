package server

// Данный сервер просто объединяет специфичные HTTP сервера, отвечающие за обработку конкретных сущностей
type Server struct {
	AnalysisServer
	ScrapeServer
	ListingServer
	CatalogServer
}

func NewServer(
	analysisServer AnalysisServer,
	scrapeServer ScrapeServer,
	listingServer ListingServer,
	catalogServer CatalogServer,
) Server {
	return Server{
		AnalysisServer: analysisServer,
		ScrapeServer:   scrapeServer,
		ListingServer:  listingServer,
		CatalogServer:  catalogServer,
	}
}
