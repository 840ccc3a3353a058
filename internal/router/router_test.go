package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"vet-clinic-records/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	// Sin DB ni parser: repos en memoria y sesión por header X-Debug-Cedula.
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_HistorialFlow(t *testing.T) {
	ts := newTestServer(t)

	createOwner(t, ts.URL, "1102345678", "Lucía", "Pérez")
	petID := createPatient(t, ts.URL, map[string]any{
		"nombreMascota":     "Rex",
		"especie":           "perro",
		"raza":              "mestizo",
		"edad":              3,
		"cedulaPropietario": "1102345678",
	})

	// 1) Crear ficha
	histID := createEntry(t, ts.URL, map[string]any{
		"motivo_consulta":      "Chequeo anual",
		"diagnostico":          "Sano",
		"pacientes_id_mascota": petID,
	})

	// 2) Lectura por historial_id devuelve exactamente esa ficha
	{
		st, body := doReq(t, ts.URL, "GET", "/historial_medico?historial_id="+itoa(histID), "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get by historial_id, got %d body=%s", st, string(body))
		}
		rows := dataRows(t, body)
		if len(rows) != 1 {
			t.Fatalf("expected 1 row by historial_id, got %d body=%s", len(rows), string(body))
		}
		if rows[0]["motivo_consulta"] != "Chequeo anual" {
			t.Fatalf("unexpected motivo_consulta: %v", rows[0]["motivo_consulta"])
		}
		if rows[0]["paciente_nombre"] != "Rex" {
			t.Fatalf("expected joined paciente_nombre Rex, got %v", rows[0]["paciente_nombre"])
		}
	}

	// 3) Lectura por paciente_id resuelve la vista por dueño
	{
		st, body := doReq(t, ts.URL, "GET", "/historial_medico?paciente_id="+itoa(petID), "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get by paciente_id, got %d body=%s", st, string(body))
		}
		rows := dataRows(t, body)
		if len(rows) != 1 {
			t.Fatalf("expected 1 view row by paciente_id, got %d body=%s", len(rows), string(body))
		}
		if rows[0]["cedula"] != "1102345678" {
			t.Fatalf("expected view row with cedula, got %v", rows[0])
		}
	}

	// 4) paciente_id inexistente: lectura vacía exitosa, nunca 404
	{
		st, body := doReq(t, ts.URL, "GET", "/historial_medico?paciente_id=9999", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 for unknown paciente_id, got %d body=%s", st, string(body))
		}
		if rows := dataRows(t, body); len(rows) != 0 {
			t.Fatalf("expected empty data for unknown paciente_id, got %d rows", len(rows))
		}
	}

	// 5) historial_id no numérico => 400 nombrando el campo
	{
		st, body := doReq(t, ts.URL, "GET", "/historial_medico?historial_id=abc", "", nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for non-numeric historial_id, got %d body=%s", st, string(body))
		}
		assertErrorCode(t, body, "VALIDATION")
	}

	// 6) Update parcial: solo tratamiento cambia, el resto queda intacto
	{
		st, body := doReq(t, ts.URL, "PUT", "/historial_medico", "", map[string]any{
			"id":          histID,
			"tratamiento": "Vitaminas",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update, got %d body=%s", st, string(body))
		}
		var resp struct {
			Success      bool    `json:"success"`
			AffectedRows float64 `json:"affectedRows"`
		}
		mustUnmarshal(t, body, &resp)
		if !resp.Success || resp.AffectedRows != 1 {
			t.Fatalf("expected affectedRows=1, body=%s", string(body))
		}

		_, after := doReq(t, ts.URL, "GET", "/historial_medico?historial_id="+itoa(histID), "", nil)
		rows := dataRows(t, after)
		if len(rows) != 1 || rows[0]["tratamiento"] != "Vitaminas" {
			t.Fatalf("expected tratamiento updated, body=%s", string(after))
		}
		if rows[0]["motivo_consulta"] != "Chequeo anual" || rows[0]["diagnostico"] != "Sano" {
			t.Fatalf("partial update touched other fields: %v", rows[0])
		}
	}

	// 7) Update con id pero sin campos => 400
	{
		st, body := doReq(t, ts.URL, "PUT", "/historial_medico", "", map[string]any{"id": histID})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 empty update, got %d body=%s", st, string(body))
		}
		assertErrorCode(t, body, "VALIDATION")
	}

	// 8) Update sin id => 400
	{
		st, _ := doReq(t, ts.URL, "PUT", "/historial_medico", "", map[string]any{"diagnostico": "x"})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 update without id, got %d", st)
		}
	}

	// 9) Update con null explícito borra el campo
	{
		st, body := doReq(t, ts.URL, "PUT", "/historial_medico", "", map[string]any{
			"id":          histID,
			"diagnostico": nil,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 null update, got %d body=%s", st, string(body))
		}
		_, after := doReq(t, ts.URL, "GET", "/historial_medico?historial_id="+itoa(histID), "", nil)
		rows := dataRows(t, after)
		if len(rows) != 1 || rows[0]["diagnostico"] != nil {
			t.Fatalf("expected diagnostico null after update, body=%s", string(after))
		}
	}

	// 10) Delete
	{
		st, body := doReq(t, ts.URL, "DELETE", "/historial_medico/"+itoa(histID), "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete, got %d body=%s", st, string(body))
		}
		_, after := doReq(t, ts.URL, "GET", "/historial_medico?historial_id="+itoa(histID), "", nil)
		if rows := dataRows(t, after); len(rows) != 0 {
			t.Fatalf("expected empty data after delete, got %d rows", len(rows))
		}
	}
}

func TestHTTP_Pacientes_DuplicateGuard(t *testing.T) {
	ts := newTestServer(t)

	createOwner(t, ts.URL, "0911111111", "Mario", "Sáenz")
	createOwner(t, ts.URL, "0922222222", "Ana", "Vera")

	createPatient(t, ts.URL, map[string]any{
		"nombreMascota":     "Rex",
		"especie":           "perro",
		"cedulaPropietario": "0911111111",
	})

	// Mismo nombre normalizado, mismo dueño => 409
	for _, name := range []string{"Rex", "REX", "  rex  "} {
		st, body := doReq(t, ts.URL, "POST", "/pacientes", "", map[string]any{
			"nombreMascota":     name,
			"especie":           "perro",
			"cedulaPropietario": "0911111111",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 for duplicate %q, got %d body=%s", name, st, string(body))
		}
		assertErrorCode(t, body, "DUPLICATE_PATIENT")
	}

	// Mismo nombre, otro dueño => permitido
	{
		st, body := doReq(t, ts.URL, "POST", "/pacientes", "", map[string]any{
			"nombreMascota":     "Rex",
			"especie":           "perro",
			"cedulaPropietario": "0922222222",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 same name other owner, got %d body=%s", st, string(body))
		}
	}

	// Pre-chequeo del formulario
	{
		st, body := doReq(t, ts.URL, "POST", "/pacientes/check", "", map[string]any{
			"nombre":              "rex",
			"propietarios_cedula": "0911111111",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 check, got %d body=%s", st, string(body))
		}
		var resp struct {
			Exists bool `json:"exists"`
		}
		mustUnmarshal(t, body, &resp)
		if !resp.Exists {
			t.Fatalf("expected exists=true for normalized duplicate, body=%s", string(body))
		}
	}
}

func TestHTTP_Pacientes_Validation(t *testing.T) {
	ts := newTestServer(t)

	createOwner(t, ts.URL, "0733333333", "Rosa", "Criollo")

	// Cédula inexistente => código propio, no VALIDATION genérico
	{
		st, body := doReq(t, ts.URL, "POST", "/pacientes", "", map[string]any{
			"nombreMascota":     "Luna",
			"especie":           "gato",
			"cedulaPropietario": "9999999999",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 unknown owner, got %d body=%s", st, string(body))
		}
		assertErrorCode(t, body, "OWNER_NOT_FOUND")
	}

	// edad negativa => 400
	{
		st, body := doReq(t, ts.URL, "POST", "/pacientes", "", map[string]any{
			"nombreMascota":     "Luna",
			"especie":           "gato",
			"edad":              -1,
			"cedulaPropietario": "0733333333",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 negative edad, got %d body=%s", st, string(body))
		}
	}

	// edad 0 es válida; peso "" viaja como null
	id := createPatient(t, ts.URL, map[string]any{
		"nombreMascota":     "Luna",
		"especie":           "gato",
		"edad":              0,
		"peso":              "",
		"cedulaPropietario": "0733333333",
	})

	st, body := doReq(t, ts.URL, "GET", "/pacientes/"+itoa(id), "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get paciente, got %d body=%s", st, string(body))
	}
	rows := dataRows(t, body)
	if len(rows) != 1 {
		t.Fatalf("expected 1 paciente, body=%s", string(body))
	}
	if rows[0]["edad"] != float64(0) {
		t.Fatalf("expected edad 0, got %v", rows[0]["edad"])
	}
	if rows[0]["peso"] != nil {
		t.Fatalf("expected peso null for empty string input, got %v", rows[0]["peso"])
	}

	// Update parcial: edad negativa rechazada sin tocar nada
	{
		st, body := doReq(t, ts.URL, "PUT", "/pacientes/"+itoa(id), "", map[string]any{"edad": -2})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 negative edad update, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_Propietarios_SelfDeleteClearsSession(t *testing.T) {
	ts := newTestServer(t)

	createOwner(t, ts.URL, "0655555555", "Iván", "Loor")
	createOwner(t, ts.URL, "0666666666", "Elsa", "Mora")

	// Borrar a OTRO propietario no toca la sesión
	{
		res, body := doReqRaw(t, ts.URL, "DELETE", "/propietarios/0666666666", "0655555555", nil)
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 delete other, got %d body=%s", res.StatusCode, string(body))
		}
		var resp struct {
			LoggedOut bool `json:"loggedOut"`
		}
		mustUnmarshal(t, body, &resp)
		if resp.LoggedOut {
			t.Fatalf("expected loggedOut=false deleting another owner")
		}
		if len(res.Cookies()) != 0 {
			t.Fatalf("expected no Set-Cookie deleting another owner, got %v", res.Cookies())
		}
	}

	// Borrarse a sí mismo expira authToken y userInfo
	{
		res, body := doReqRaw(t, ts.URL, "DELETE", "/propietarios/0655555555", "0655555555", nil)
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 self delete, got %d body=%s", res.StatusCode, string(body))
		}
		var resp struct {
			Success      bool    `json:"success"`
			AffectedRows float64 `json:"affectedRows"`
			LoggedOut    bool    `json:"loggedOut"`
		}
		mustUnmarshal(t, body, &resp)
		if !resp.Success || resp.AffectedRows != 1 || !resp.LoggedOut {
			t.Fatalf("expected self delete with loggedOut=true, body=%s", string(body))
		}

		expired := map[string]bool{}
		for _, ck := range res.Cookies() {
			if ck.MaxAge < 0 {
				expired[ck.Name] = true
			}
		}
		if !expired["authToken"] || !expired["userInfo"] {
			t.Fatalf("expected authToken and userInfo expired, got %v", res.Cookies())
		}
	}

	// Lectura del borrado: data vacía, 200
	{
		st, body := doReq(t, ts.URL, "GET", "/propietarios/0655555555", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get deleted owner, got %d body=%s", st, string(body))
		}
		if rows := dataRows(t, body); len(rows) != 0 {
			t.Fatalf("expected empty data for deleted owner, got %d rows", len(rows))
		}
	}
}

func TestHTTP_Proxy_WithoutExternalBase(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/citas", "/vacunas/list", "/desparacitantes", "/proxy/fichamedica"} {
		st, body := doReq(t, ts.URL, "GET", path, "", nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s without EXTERNAL_API_BASE, got %d body=%s", path, st, string(body))
		}
		assertErrorCode(t, body, "CONFIG_MISSING")
	}
}

func createOwner(t *testing.T, baseURL, cedula, nombre, apellido string) {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/propietarios", "", map[string]any{
		"cedula":   cedula,
		"nombre":   nombre,
		"apellido": apellido,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create propietario, got %d body=%s", st, string(body))
	}
}

func createPatient(t *testing.T, baseURL string, payload map[string]any) int64 {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pacientes", "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create paciente, got %d body=%s", st, string(body))
	}

	var resp struct {
		InsertID int64 `json:"insertId"`
	}
	mustUnmarshal(t, body, &resp)
	if resp.InsertID <= 0 {
		t.Fatalf("create paciente: missing insertId body=%s", string(body))
	}
	return resp.InsertID
}

func createEntry(t *testing.T, baseURL string, payload map[string]any) int64 {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/historial_medico", "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create historial, got %d body=%s", st, string(body))
	}

	var resp struct {
		InsertID int64 `json:"insertId"`
	}
	mustUnmarshal(t, body, &resp)
	if resp.InsertID <= 0 {
		t.Fatalf("create historial: missing insertId body=%s", string(body))
	}
	return resp.InsertID
}

func dataRows(t *testing.T, body []byte) []map[string]any {
	t.Helper()

	var resp struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
	}
	mustUnmarshal(t, body, &resp)
	if !resp.Success {
		t.Fatalf("expected success=true, body=%s", string(body))
	}
	return resp.Data
}

func assertErrorCode(t *testing.T, body []byte, code string) {
	t.Helper()

	var resp struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	mustUnmarshal(t, body, &resp)
	if resp.Success || resp.Code != code {
		t.Fatalf("expected error code %s, body=%s", code, string(body))
	}
}

func mustUnmarshal(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("unmarshal %q: %v", string(body), err)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func doReq(t *testing.T, baseURL, method, path, debugCedula string, body any) (int, []byte) {
	t.Helper()
	res, respBody := doReqRaw(t, baseURL, method, path, debugCedula, body)
	return res.StatusCode, respBody
}

func doReqRaw(t *testing.T, baseURL, method, path, debugCedula string, body any) (*http.Response, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugCedula != "" {
		req.Header.Set("X-Debug-Cedula", debugCedula)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res, respBody
}
