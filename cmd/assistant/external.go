package main

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"farmconnect/pkg/weather"
)

const defaultLocation = "Anand"

// The weather endpoints never fail on collaborator trouble: when the
// upstream errors or the breaker is open they serve the deterministic mock
// readings instead.

func (s *server) currentWeather(c *gin.Context) {
	location := c.DefaultQuery("location", defaultLocation)

	cur, err := s.weather.Current(c.Request.Context(), location)
	if err != nil {
		log.Printf("Weather fetch failed for %s, serving mock data: %v", location, err)
		cur = weather.MockCurrent(location)
	}
	c.JSON(http.StatusOK, cur)
}

func (s *server) weatherForecast(c *gin.Context) {
	location := c.DefaultQuery("location", defaultLocation)
	days, _ := strconv.Atoi(c.DefaultQuery("days", "3"))

	forecast, err := s.weather.Forecast(c.Request.Context(), location, days)
	if err != nil {
		log.Printf("Forecast fetch failed for %s, serving mock data: %v", location, err)
		forecast = weather.MockForecast(location, days)
	}
	c.JSON(http.StatusOK, forecast)
}

func (s *server) weatherAlerts(c *gin.Context) {
	location := c.DefaultQuery("location", defaultLocation)

	cur, err := s.weather.Current(c.Request.Context(), location)
	if err != nil {
		cur = weather.MockCurrent(location)
	}
	forecast, err := s.weather.Forecast(c.Request.Context(), location, 1)
	if err != nil {
		forecast = weather.MockForecast(location, 1)
	}

	c.JSON(http.StatusOK, weather.BuildAlerts(location, cur, forecast))
}

func (s *server) mandiPrices(c *gin.Context) {
	commodity := c.DefaultQuery("commodity", "Wheat")

	prices, err := s.mandi.Prices(c.Request.Context(), commodity)
	if err != nil {
		log.Printf("Mandi fetch failed for %s: %v", commodity, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "market data is unavailable, try again later"})
		return
	}
	c.JSON(http.StatusOK, prices)
}
