package connection

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// PortInfo описывает найденный последовательный порт.
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// Lister возвращает сведения о портах системы.
type Lister func() ([]*enumerator.PortDetails, error)

// ConnectionService отвечает за поиск портов, к которым можно подключиться
type ConnectionService struct {
	list Lister
}

// NewConnectionService создает сервис поверх go.bug.st/serial/enumerator
func NewConnectionService() *ConnectionService {
	return NewConnectionServiceWithLister(enumerator.GetDetailedPortsList)
}

// NewConnectionServiceWithLister создает сервис с заданной функцией перечисления портов
func NewConnectionServiceWithLister(list Lister) *ConnectionService {
	return &ConnectionService{list: list}
}

// GetSystemPorts возвращает список доступных в системе портов, отсортированный по имени
func (s *ConnectionService) GetSystemPorts() ([]PortInfo, error) {
	details, err := s.list()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		ports = append(ports, PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })
	return ports, nil
}

// WritePorts печатает список портов по одному в строке
func (s *ConnectionService) WritePorts(w io.Writer) error {
	ports, err := s.GetSystemPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Fprintln(w, "no serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Fprintln(w, p.String())
	}
	return nil
}

func (p PortInfo) String() string {
	if !p.IsUSB {
		return p.Name
	}
	parts := []string{p.Name, fmt.Sprintf("USB %s:%s", strings.ToLower(p.VID), strings.ToLower(p.PID))}
	if p.SerialNumber != "" {
		parts = append(parts, "serial "+p.SerialNumber)
	}
	if p.Product != "" {
		parts = append(parts, p.Product)
	}
	return strings.Join(parts, "  ")
}
