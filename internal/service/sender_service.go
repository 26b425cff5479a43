package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"time"

	"inmobiliaria/internal/entities"
)

type SenderService struct {
}

func NewSenderService() *SenderService {
	return &SenderService{}
}

func (s *SenderService) SendAppointmentEmail(appointment entities.AppointmentResponse, status string) {
	madridLoc, errLoc := time.LoadLocation("Europe/Madrid")
	if errLoc != nil {
		madridLoc = time.FixedZone("CET", 1*60*60) // fallback CET
	}

	listingTitle := ""
	if appointment.Listing != nil {
		listingTitle = appointment.Listing.Title
	}

	emailData := entities.AppointmentEmailData{
		ClientName:    appointment.ClientName,
		AppointmentID: appointment.ID,
		ListingTitle:  listingTitle,
		DateFormatted: appointment.Date,
		TimeFormatted: appointment.Time,
		Status:        status,
		CurrentYear:   time.Now().In(madridLoc).Year(),
		Language:      statusLanguage(appointment),
	}

	var emailSubject, plainTextBody string
	switch emailData.Language {
	case "es":
		emailSubject = fmt.Sprintf("Tu visita con CasaVerde está %s - Nº %d", statusTranslation(status, "es"), appointment.ID)
		plainTextBody = fmt.Sprintf(
			"Hola %s,\n\nTu visita con CasaVerde está %s.\n\n"+
				"Detalles de la visita:\n"+
				"Número de visita: %d\n"+
				"Fecha: %s\n"+
				"Hora: %s\n\n"+
				"Gracias por elegir CasaVerde.\n\n"+
				"CasaVerde. Todos los derechos reservados.",
			emailData.ClientName, statusTranslation(status, "es"), appointment.ID,
			emailData.DateFormatted, emailData.TimeFormatted,
		)
	case "it":
		emailSubject = fmt.Sprintf("La tua visita CasaVerde è %s - N. %d", statusTranslation(status, "it"), appointment.ID)
		plainTextBody = fmt.Sprintf(
			"Ciao %s,\n\nLa tua visita con CasaVerde è %s.\n\n"+
				"Dettagli della visita:\n"+
				"Numero visita: %d\n"+
				"Data: %s\n"+
				"Ora: %s\n\n"+
				"Grazie per aver scelto CasaVerde.\n\n"+
				"CasaVerde. Tutti i diritti riservati.",
			emailData.ClientName, statusTranslation(status, "it"), appointment.ID,
			emailData.DateFormatted, emailData.TimeFormatted,
		)
	default:
		emailSubject = fmt.Sprintf("Your CasaVerde viewing is %s - No. %d", status, appointment.ID)
		plainTextBody = fmt.Sprintf(
			"Hello %s,\n\nYour viewing with CasaVerde is %s.\n\n"+
				"Viewing Details:\n"+
				"Viewing Number: %d\n"+
				"Date: %s\n"+
				"Time: %s\n\n"+
				"Thank you for choosing CasaVerde.\n\n"+
				"CasaVerde. All rights reserved.",
			emailData.ClientName, status, appointment.ID,
			emailData.DateFormatted, emailData.TimeFormatted,
		)
	}

	tmplPath := filepath.Join("internal", "templates", "appointment_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("ALERTA: Error al parsear la plantilla de correo HTML (%s): %v", tmplPath, err)
		return
	}

	var htmlBodyBuffer bytes.Buffer
	if err := tmpl.Execute(&htmlBodyBuffer, emailData); err != nil {
		log.Printf("ALERTA: Error al ejecutar la plantilla de correo HTML para la visita %d: %v", appointment.ID, err)
	}
	htmlBody := htmlBodyBuffer.String()

	go func(toEmail, clientName, subject, plainBody, htmlBodyContent string) {
		errEmail := SendEmailWithSendGrid(toEmail, clientName, subject, plainBody, htmlBodyContent)
		if errEmail != nil {
			log.Printf("ALERTA (asíncrono): Falló envío de correo para la visita %d: %v", appointment.ID, errEmail)
		}
	}(appointment.ClientEmail, emailData.ClientName, emailSubject, plainTextBody, htmlBody)
}

func (s *SenderService) SendAppointmentSMS(appointment entities.AppointmentResponse, status string) {
	var smsMessage string
	switch statusLanguage(appointment) {
	case "es":
		smsMessage = fmt.Sprintf("CasaVerde: ¡Tu visita nº %d está %s!\nFecha: %s %s.\nMás detalles en tu correo.",
			appointment.ID, statusTranslation(status, "es"), appointment.Date, appointment.Time)
	case "it":
		smsMessage = fmt.Sprintf("CasaVerde: La tua visita n. %d è %s!\nData: %s %s.\nAltri dettagli nella tua email.",
			appointment.ID, statusTranslation(status, "it"), appointment.Date, appointment.Time)
	default:
		smsMessage = fmt.Sprintf("CasaVerde: Viewing no. %d is %s!\nDate: %s %s.\nMore details in your email.",
			appointment.ID, status, appointment.Date, appointment.Time)
	}

	errSMS := SendSMS(appointment.ClientPhone, smsMessage)
	if errSMS != nil {
		log.Printf("ALERTA: La visita %d se registró, pero falló el envío del SMS a %s: %v", appointment.ID, appointment.ClientPhone, errSMS)
	}
}

// statusLanguage picks the notification language persisted with the
// booking; empty defaults to English.
func statusLanguage(appointment entities.AppointmentResponse) string {
	return appointment.Language
}

// statusTranslation traduce el status según idioma.
func statusTranslation(status, lang string) string {
	switch lang {
	case "es":
		switch status {
		case StatusPending:
			return "pendiente"
		case StatusConfirmed:
			return "confirmada"
		case StatusCancelled:
			return "cancelada"
		case StatusCompleted:
			return "completada"
		case StatusNoShow:
			return "no presentada"
		}
	case "it":
		switch status {
		case StatusPending:
			return "in attesa"
		case StatusConfirmed:
			return "confermata"
		case StatusCancelled:
			return "annullata"
		case StatusCompleted:
			return "completata"
		case StatusNoShow:
			return "non presentata"
		}
	}
	// Default: English
	return status
}
