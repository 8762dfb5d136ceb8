package models

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// UpdatePriceRequest запрос на изменение цены варианта услуги
// Цена передается строкой в основных единицах валюты, например "150.00"
type UpdatePriceRequest struct {
	Price string `json:"price"`
}

// ServiceOptionResponse ответ с данными варианта услуги
type ServiceOptionResponse struct {
	ID              int64  `json:"id"`
	ServiceID       int64  `json:"serviceId"`
	ServiceName     string `json:"serviceName"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Price           string `json:"price"`
	IsActive        bool   `json:"isActive"`
}

// FromDomainServiceOption конвертирует domain.ServiceOption в ответ
func FromDomainServiceOption(o *domain.ServiceOption) *ServiceOptionResponse {
	return &ServiceOptionResponse{
		ID:              o.ID,
		ServiceID:       o.ServiceID,
		ServiceName:     o.ServiceName,
		Name:            o.Name,
		DurationMinutes: o.DurationMinutes,
		Price:           o.Price.Major(),
		IsActive:        o.IsActive,
	}
}
