// seed_catalog genera un script SQL para poblar el catálogo local (categorías,
// insumos, actividades y dataSets) a partir de un export XML de metadatos del
// servidor remoto.
//
// Uso: go run ./cmd/seed_catalog [ruta/metadata.xml]
// Por defecto busca metadata.xml en el directorio actual.
// Escribe: migrations/002_seed_catalog.sql
package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type metadata struct {
	DataSets []struct {
		ID         string `xml:"id,attr"`
		Name       string `xml:"name,attr"`
		PeriodType string `xml:"periodType,attr"`
	} `xml:"dataSets>dataSet"`
	Categories []struct {
		Name        string `xml:"name,attr"`
		Commodities []struct {
			Name       string `xml:"name,attr"`
			Minimum    int    `xml:"minimumQuantity,attr"`
			Maximum    int    `xml:"maximumQuantity,attr"`
			Activities []struct {
				ID           string `xml:"id,attr"`
				Name         string `xml:"name,attr"`
				ActivityType string `xml:"activityType,attr"`
				DataSetID    string `xml:"dataSet,attr"`
			} `xml:"activity"`
		} `xml:"commodity"`
	} `xml:"categories>category"`
}

func main() {
	xmlPath := "metadata.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var m metadata
	dec := xml.NewDecoder(f)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&m); err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo de insumos del establecimiento\n")
	out.WriteString("-- Generado desde el export de metadatos del servidor remoto\n\n")

	// 1. DataSets (ordenados por id para salida estable)
	sort.Slice(m.DataSets, func(i, j int) bool { return m.DataSets[i].ID < m.DataSets[j].ID })
	out.WriteString("-- 1. DataSets\n")
	for _, ds := range m.DataSets {
		fmt.Fprintf(out, "INSERT INTO data_sets (id, name, period_type) VALUES ('%s', '%s', '%s')\n",
			escapeSQL(ds.ID), escapeSQL(ds.Name), escapeSQL(ds.PeriodType))
		out.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, period_type = EXCLUDED.period_type;\n")
	}
	out.WriteString("\n")

	// 2. Categorías, insumos (con fila de stock en cero) y actividades
	commodities, activities := 0, 0
	out.WriteString("-- 2. Categorías, insumos y actividades\n")
	for _, cat := range m.Categories {
		catID := uuid.New().String()
		fmt.Fprintf(out, "INSERT INTO categories (id, name) VALUES ('%s', '%s')\nON CONFLICT (name) DO NOTHING;\n",
			catID, escapeSQL(cat.Name))
		for _, c := range cat.Commodities {
			commodityID := uuid.New().String()
			fmt.Fprintf(out, "INSERT INTO commodities (id, category_id, name, active, minimum_quantity, maximum_quantity)\n")
			fmt.Fprintf(out, "SELECT '%s', id, '%s', true, %d, %d FROM categories WHERE name = '%s'\n",
				commodityID, escapeSQL(c.Name), c.Minimum, c.Maximum, escapeSQL(cat.Name))
			out.WriteString("ON CONFLICT (name) DO NOTHING;\n")
			fmt.Fprintf(out, "INSERT INTO stock_items (id, commodity_id, quantity)\n")
			fmt.Fprintf(out, "SELECT '%s', id, 0 FROM commodities WHERE name = '%s'\n",
				uuid.New().String(), escapeSQL(c.Name))
			out.WriteString("ON CONFLICT (commodity_id) DO NOTHING;\n")
			commodities++
			for _, a := range c.Activities {
				fmt.Fprintf(out, "INSERT INTO commodity_activities (id, commodity_id, name, activity_type, data_set_id)\n")
				fmt.Fprintf(out, "SELECT '%s', id, '%s', '%s', '%s' FROM commodities WHERE name = '%s'\n",
					escapeSQL(a.ID), escapeSQL(a.Name), escapeSQL(a.ActivityType), escapeSQL(a.DataSetID), escapeSQL(c.Name))
				out.WriteString("ON CONFLICT (id) DO NOTHING;\n")
				activities++
			}
		}
	}

	fmt.Printf("Generado %s: %d dataSets, %d insumos, %d actividades\n",
		outPath, len(m.DataSets), commodities, activities)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
