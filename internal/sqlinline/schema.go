package sqlinline

// QSchema bootstraps the users and pending_orders tables. It is idempotent.
const QSchema = `--sql 288bd9f3-c131-4a65-a2d2-4079570e9150
create table if not exists users (
    id integer primary key generated always as identity,
    name varchar(255) not null,
    age integer not null,
    email varchar(255) not null unique
);

create table if not exists pending_orders (
    id integer primary key generated always as identity,
    image_url varchar(1000) not null,
    prompt varchar(1000) not null,
    user_id integer references users(id),
    created_at timestamptz not null default now(),
    status varchar(50) not null default 'pending'
        check (status in ('pending', 'accepted', 'rejected'))
);

create index if not exists pending_orders_created_at_idx on pending_orders (created_at desc);
`

// QDropSchema removes both tables. Used by `migrate -mode down` only.
const QDropSchema = `--sql f2ef923a-d116-486d-9883-2d7a944f78ad
drop table if exists pending_orders;
drop table if exists users;
`
