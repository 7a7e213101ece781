// seed_kra genera el script SQL que puebla kra_item_classes a partir del export CSV
// de clasificaciones de artículos de la KRA (Windows-1252, separado por comas).
//
// Columnas esperadas: itemClsCd, itemClsNm, itemClsLvl, taxTyCd, useYn (con encabezado).
//
// Uso: go run ./cmd/seed_kra [ruta/item_classes.csv]
// Escribe: internal/infrastructure/postgres/migrations/003_seed_item_classes.sql
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

type itemClass struct {
	Code    string
	Name    string
	Level   int
	TaxType string
	Active  bool
}

func main() {
	csvPath := "item_classes.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	classes, err := parseClasses(transform.NewReader(f, charmap.Windows1252.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "003_seed_item_classes.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, classes); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d clasificaciones\n", outPath, len(classes))
}

// parseClasses lee el CSV ya decodificado a UTF-8. Filas sin código o nombre se descartan;
// códigos repetidos se quedan con la última fila.
func parseClasses(r io.Reader) ([]itemClass, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range []string{"itemclscd", "itemclsnm"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("falta la columna %s", col)
		}
	}
	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	byCode := map[string]itemClass{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		c := itemClass{
			Code:    get(rec, "itemclscd"),
			Name:    get(rec, "itemclsnm"),
			Level:   1,
			TaxType: strings.ToUpper(get(rec, "taxtycd")),
			Active:  !strings.EqualFold(get(rec, "useyn"), "N"),
		}
		if c.Code == "" || c.Name == "" {
			continue
		}
		if lvl, err := strconv.Atoi(get(rec, "itemclslvl")); err == nil && lvl > 0 {
			c.Level = lvl
		}
		if c.TaxType != "" && !kra.ValidTaxType(c.TaxType) {
			c.TaxType = ""
		}
		byCode[c.Code] = c
	}

	classes := make([]itemClass, 0, len(byCode))
	for _, c := range byCode {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Code < classes[j].Code })
	return classes, nil
}

func writeSQL(w io.Writer, classes []itemClass) error {
	if _, err := io.WriteString(w, "-- Clasificaciones de artículos KRA eTIMS\n-- Generado por cmd/seed_kra\n\n"); err != nil {
		return err
	}
	for _, c := range classes {
		tax := "NULL"
		if c.TaxType != "" {
			tax = "'" + c.TaxType + "'"
		}
		_, err := fmt.Fprintf(w,
			"INSERT INTO kra_item_classes (code, name, level, tax_type, active) VALUES ('%s', '%s', %d, %s, %t)\n"+
				"ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, level = EXCLUDED.level, tax_type = EXCLUDED.tax_type, active = EXCLUDED.active;\n",
			escapeSQL(c.Code), escapeSQL(c.Name), c.Level, tax, c.Active)
		if err != nil {
			return err
		}
	}
	return nil
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
