package worker

// arqueo_worker.go
// Processes QueueArqueoPDF jobs: rebuilds the arqueo of a closed session from
// the ledger, renders the PDF ticket, and emails it to the alert address.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Eduardv6/SisPOS-Backend/internal/dto"
	"github.com/Eduardv6/SisPOS-Backend/internal/infra"
	"github.com/Eduardv6/SisPOS-Backend/internal/model"
	"github.com/Eduardv6/SisPOS-Backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ArqueoPayload is the job envelope sent to QueueArqueoPDF.
type ArqueoPayload struct {
	SesionID string `json:"sesion_id"`
}

// ArqueoWorker renders the cash-count ticket of a closed session.
type ArqueoWorker struct {
	cajaRepo    repository.CajaRepository
	ventaRepo   repository.VentaRepository
	mailer      *infra.Mailer
	cb          *infra.CircuitBreaker
	alertEmail  string
	storagePath string
}

func NewArqueoWorker(cajaRepo repository.CajaRepository, ventaRepo repository.VentaRepository,
	mailer *infra.Mailer, cb *infra.CircuitBreaker, alertEmail, storagePath string) *ArqueoWorker {
	return &ArqueoWorker{
		cajaRepo:    cajaRepo,
		ventaRepo:   ventaRepo,
		mailer:      mailer,
		cb:          cb,
		alertEmail:  alertEmail,
		storagePath: storagePath,
	}
}

// Process rebuilds the arqueo from the ledger and writes the PDF. The email
// step is best effort: a downed relay never fails the job once the PDF is on
// disk.
func (w *ArqueoWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ArqueoPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("arqueo: invalid payload")
		return nil
	}
	sesionID, err := uuid.Parse(payload.SesionID)
	if err != nil {
		log.Error().Err(err).Str("sesion_id", payload.SesionID).Msg("arqueo: invalid sesion id")
		return nil
	}

	sesion, err := w.cajaRepo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return fmt.Errorf("arqueo: load sesion: %w", err)
	}
	if sesion.Estado != model.SesionCerrada || sesion.MontoFinal == nil || sesion.FechaFin == nil {
		log.Warn().Str("sesion_id", payload.SesionID).Msg("arqueo: sesion not closed, skipping")
		return nil
	}
	caja, err := w.cajaRepo.FindByID(ctx, sesion.CajaID)
	if err != nil {
		return fmt.Errorf("arqueo: load caja: %w", err)
	}

	ventasEfectivo, totalVentas, err := w.ventaRepo.SumVentasEfectivoSesion(ctx, sesion.ID)
	if err != nil {
		return fmt.Errorf("arqueo: sum ventas: %w", err)
	}
	ventas, err := w.ventaRepo.ListBySesion(ctx, sesion.ID)
	if err != nil {
		return fmt.Errorf("arqueo: list ventas: %w", err)
	}
	ingresos, retiros, err := w.cajaRepo.SumMovimientosManuales(ctx, sesion.ID)
	if err != nil {
		return fmt.Errorf("arqueo: sum movimientos: %w", err)
	}

	esperado := sesion.MontoInicial.Add(ventasEfectivo).Add(ingresos).Sub(retiros)
	arqueo := &dto.ArqueoResponse{
		SesionID:       sesion.ID.String(),
		CajaID:         sesion.CajaID.String(),
		MontoInicial:   sesion.MontoInicial,
		VentasEfectivo: ventasEfectivo,
		Ingresos:       ingresos,
		Retiros:        retiros,
		MontoEsperado:  esperado,
		MontoDeclarado: *sesion.MontoFinal,
		Diferencia:     sesion.MontoFinal.Sub(esperado),
		TotalVentas:    totalVentas,
		FechaInicio:    sesion.FechaInicio.Format("2006-01-02T15:04:05Z"),
		FechaFin:       sesion.FechaFin.Format("2006-01-02T15:04:05Z"),
	}

	pdfPath, err := infra.GenerateArqueoPDF(arqueo, ventas, caja.Codigo, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("path", pdfPath).Str("caja", caja.Codigo).Msg("arqueo: PDF generated")

	if w.alertEmail == "" {
		return nil
	}
	subject := fmt.Sprintf("Arqueo caja %s", caja.Codigo)
	body := fmt.Sprintf(
		"Cierre de la caja %s.\n\nEsperado: %s\nDeclarado: %s\nDiferencia: %s\n",
		caja.Codigo,
		arqueo.MontoEsperado.StringFixed(2),
		arqueo.MontoDeclarado.StringFixed(2),
		arqueo.Diferencia.StringFixed(2),
	)
	mailErr := w.cb.Execute(func() error {
		return w.mailer.Send(w.alertEmail, subject, body, pdfPath)
	})
	if mailErr != nil {
		log.Warn().Err(mailErr).Str("caja", caja.Codigo).Msg("arqueo: could not email ticket")
	}
	return nil
}
