package items

// Item representa un registro persistido en la tabla items.
// ID es 0 sólo antes de la primera inserción; después lo asigna la DB
// y no cambia nunca.
type Item struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
	Price       float64 `json:"price" db:"price"`
}

// CreateItemInput representa el payload ya validado para crear un item.
// No tiene ID: lo genera la DB al insertar.
type CreateItemInput struct {
	Name        string
	Description *string
	Price       float64
}

// Item construye el registro a insertar a partir del input.
func (input CreateItemInput) Item() Item {
	return Item{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	}
}

// UpdateItemInput representa un update parcial.
// Sólo se aplican los campos presentes en el JSON; un campo ausente no
// se toca y uno enviado con su valor cero ("" o 0) sí se aplica.
type UpdateItemInput struct {
	Name        Optional[string]  `json:"name"`
	Description Optional[*string] `json:"description"`
	Price       Optional[float64] `json:"price"`
}

// Empty indica si el update no trae ningún campo.
func (input UpdateItemInput) Empty() bool {
	return !input.Name.Set && !input.Description.Set && !input.Price.Set
}

// ApplyTo sobrescribe en item sólo los campos presentes.
// Los campos son independientes, el orden no importa.
func (input UpdateItemInput) ApplyTo(item *Item) {
	if input.Name.Set {
		item.Name = input.Name.Value
	}
	if input.Description.Set {
		item.Description = input.Description.Value
	}
	if input.Price.Set {
		item.Price = input.Price.Value
	}
}
