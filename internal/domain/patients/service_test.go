package patients

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type testRepo struct {
	byID   map[int64]Patient
	nextID int64
}

func newTestRepo() *testRepo {
	return &testRepo{byID: make(map[int64]Patient)}
}

func (r *testRepo) Create(ctx context.Context, p Patient) (int64, error) {
	r.nextID++
	p.ID = r.nextID
	r.byID[p.ID] = p
	return p.ID, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (Patient, error) {
	p, ok := r.byID[id]
	if !ok {
		return Patient{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListNames(ctx context.Context) ([]NameRow, error) { return nil, nil }

func (r *testRepo) ListByOwner(ctx context.Context, cedula string) ([]Patient, error) {
	var out []Patient
	for _, p := range r.byID {
		if p.PropietariosCedula == cedula {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) ExistsByNameAndOwner(ctx context.Context, nombre, cedula string) (bool, error) {
	for _, p := range r.byID {
		if p.PropietariosCedula == cedula &&
			strings.EqualFold(strings.TrimSpace(p.Nombre), strings.TrimSpace(nombre)) {
			return true, nil
		}
	}
	return false, nil
}

func (r *testRepo) OwnerCedulaOf(ctx context.Context, id int64) (string, error) {
	p, ok := r.byID[id]
	if !ok {
		return "", ErrNotFound
	}
	return p.PropietariosCedula, nil
}

func (r *testRepo) UpdateFields(ctx context.Context, id int64, fields map[string]any) (int64, error) {
	p, ok := r.byID[id]
	if !ok {
		return 0, nil
	}
	if v, ok := fields["nombre"]; ok {
		p.Nombre, _ = v.(string)
	}
	if v, ok := fields["edad"]; ok {
		if f, isNum := v.(float64); isNum {
			p.Edad = &f
		} else {
			p.Edad = nil
		}
	}
	r.byID[id] = p
	return 1, nil
}

func (r *testRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if _, ok := r.byID[id]; !ok {
		return 0, nil
	}
	delete(r.byID, id)
	return 1, nil
}

type ownersAlwaysExist struct{}

func (ownersAlwaysExist) Exists(ctx context.Context, cedula string) (bool, error) { return true, nil }

type ownersNeverExist struct{}

func (ownersNeverExist) Exists(ctx context.Context, cedula string) (bool, error) { return false, nil }

func fptr(f float64) *float64 { return &f }

func TestCreate_ValidatesRequiredFields(t *testing.T) {
	svc := NewService(newTestRepo(), ownersAlwaysExist{})

	cases := []struct {
		in   CreateInput
		want string
	}{
		{CreateInput{Especie: "perro", PropietariosCedula: "11"}, "Nombre de la mascota es obligatorio"},
		{CreateInput{Nombre: "Rex", PropietariosCedula: "11"}, "Especie es obligatoria"},
		{CreateInput{Nombre: "Rex", Especie: "perro"}, "Cédula del propietario es obligatoria"},
	}
	for _, c := range cases {
		_, err := svc.Create(context.Background(), c.in)
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Msg != c.want {
			t.Fatalf("expected %q, got %v", c.want, err)
		}
	}
}

func TestCreate_RejectsNegativeNumbers(t *testing.T) {
	svc := NewService(newTestRepo(), ownersAlwaysExist{})

	_, err := svc.Create(context.Background(), CreateInput{
		Nombre:             "Rex",
		Especie:            "perro",
		Edad:               fptr(-1),
		PropietariosCedula: "11",
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for negative edad, got %v", err)
	}

	// Cero es válido
	if _, err := svc.Create(context.Background(), CreateInput{
		Nombre:             "Rex",
		Especie:            "perro",
		Edad:               fptr(0),
		PropietariosCedula: "11",
	}); err != nil {
		t.Fatalf("edad=0 must be accepted: %v", err)
	}
}

func TestCreate_UnknownOwner(t *testing.T) {
	svc := NewService(newTestRepo(), ownersNeverExist{})

	_, err := svc.Create(context.Background(), CreateInput{
		Nombre:             "Rex",
		Especie:            "perro",
		PropietariosCedula: "99",
	})
	if !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestCreate_DuplicateGuardNormalizes(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, ownersAlwaysExist{})

	if _, err := svc.Create(context.Background(), CreateInput{
		Nombre:             "Rex",
		Especie:            "perro",
		PropietariosCedula: "11",
	}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	for _, name := range []string{"Rex", "REX", "  rex  "} {
		_, err := svc.Create(context.Background(), CreateInput{
			Nombre:             name,
			Especie:            "perro",
			PropietariosCedula: "11",
		})
		if !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate for %q, got %v", name, err)
		}
	}

	// Mismo nombre, otra cédula: no es duplicado
	if _, err := svc.Create(context.Background(), CreateInput{
		Nombre:             "Rex",
		Especie:            "perro",
		PropietariosCedula: "22",
	}); err != nil {
		t.Fatalf("same name different owner must pass: %v", err)
	}
}

func TestUpdate_AllowListAndNumericCheck(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, ownersAlwaysExist{})

	id, err := svc.Create(context.Background(), CreateInput{
		Nombre:             "Luna",
		Especie:            "gato",
		PropietariosCedula: "11",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Campo fuera de la allow-list se ignora; sin campos válidos => ErrNoFields
	if _, _, err := svc.Update(context.Background(), id, map[string]any{"id_mascota": 99}); !errors.Is(err, ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}

	// Numérico negativo => ValidationError sin tocar el repo
	_, _, err = svc.Update(context.Background(), id, map[string]any{"edad": float64(-3)})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for negative edad, got %v", err)
	}

	affected, p, err := svc.Update(context.Background(), id, map[string]any{"nombre": "Lunita"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if affected != 1 || p.Nombre != "Lunita" {
		t.Fatalf("expected updated patient, got affected=%d p=%+v", affected, p)
	}
	if p.Especie != "gato" {
		t.Fatalf("update touched especie: %+v", p)
	}
}

func TestOptionalNumber_Decode(t *testing.T) {
	cases := []struct {
		in      string
		want    *float64
		wantErr bool
	}{
		{`3`, fptr(3), false},
		{`3.5`, fptr(3.5), false},
		{`"4"`, fptr(4), false},
		{`" 4.5 "`, fptr(4.5), false},
		{`""`, nil, false},
		{`null`, nil, false},
		{`"abc"`, nil, true},
	}

	for _, c := range cases {
		var n OptionalNumber
		err := json.Unmarshal([]byte(c.in), &n)
		if c.wantErr {
			if err == nil {
				t.Fatalf("expected error for %s", c.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unmarshal %s: %v", c.in, err)
		}
		switch {
		case c.want == nil && n.Value != nil:
			t.Fatalf("expected nil for %s, got %v", c.in, *n.Value)
		case c.want != nil && (n.Value == nil || *n.Value != *c.want):
			t.Fatalf("expected %v for %s, got %v", *c.want, c.in, n.Value)
		}
	}
}
